package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/ledgerview/internal/accountview"
	"github.com/gabapcia/ledgerview/internal/config"
	"github.com/gabapcia/ledgerview/internal/handlers/cli"
	"github.com/gabapcia/ledgerview/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/ledgerview/internal/infra/storage/redis"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
	"github.com/gabapcia/ledgerview/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgerview/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/ledgerview/internal/pkg/transport/http"
)

const serviceName = "ledgerview"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		// no-op when run got far enough to configure the logger
		_ = logger.Init()
		logger.Fatal(ctx, "ledgerview failed", "error", err)
	}
	_ = logger.Sync()
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		return err
	}

	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.HTTPTimeout),
		transporthttp.WithRetryWait(cfg.HTTPRetryWaitMin, cfg.HTTPRetryWaitMax),
		transporthttp.WithRetryMax(cfg.HTTPRetryMax),
		transporthttp.WithUserAgent(serviceName),
	)

	token := common.HexToAddress(cfg.TokenAddress)
	ledger, err := ethereum.Dial(ctx,
		ethereum.Endpoints{HTTP: cfg.RPCHTTPURL, WS: cfg.RPCWSURL},
		httpClient.StandardClient(),
		token,
		ethereum.WithPollInterval(cfg.PollInterval),
	)
	if err != nil {
		return err
	}
	defer ledger.Close()

	opts := []accountview.Option{
		accountview.WithWindowPolicy(accountview.WindowPolicy{
			Size:          cfg.WindowSize,
			LocalNetworks: cfg.LocalNetworks,
		}),
		accountview.WithTransferRefresh(transferRefresh(cfg.TransferRefresh)),
		accountview.WithConcurrency(cfg.Concurrency),
		accountview.WithReloadTimeout(cfg.ReloadTimeout),
		accountview.WithRetry(retry.New(
			retry.WithAttempts(cfg.RetryAttempts),
			retry.WithDelay(250*time.Millisecond),
			retry.WithMaxDelay(2*time.Second),
			retry.WithOnRetry(func(attempt uint, err error) {
				logger.Warn(ctx, "ledger request failed, retrying", "attempt", attempt, "error", err)
			}),
		)),
	}
	if !cfg.ConfirmReads {
		opts = append(opts, accountview.WithoutConfirmation())
	}

	if cfg.RedisURL != "" {
		cache, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer cache.Close()

		opts = append(opts, accountview.WithTimestampCache(cache))
	}

	logger.Info(ctx, "ledger connected", "token", token.Hex(), "streaming", cfg.RPCWSURL != "")

	return cli.Run(ctx, newOpener(ledger, opts...), cfg.TokenDecimals)
}

func transferRefresh(policy string) accountview.TransferRefresh {
	if policy == config.RefreshRelated {
		return accountview.RefreshRelatedTransfers
	}
	return accountview.RefreshAllTransfers
}
