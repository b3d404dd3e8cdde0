// Package config loads the process configuration from LEDGERVIEW_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gabapcia/ledgerview/internal/pkg/validator"
)

// Prefix is prepended to every variable name, e.g. LEDGERVIEW_RPC_HTTP_URL.
const Prefix = "LEDGERVIEW"

// Transfer refresh policies accepted by TransferRefresh.
const (
	RefreshAll     = "all"
	RefreshRelated = "related"
)

// Config is the runtime configuration of the ledgerview binary.
type Config struct {
	// RPCHTTPURL serves eth_blockNumber, eth_chainId, block headers, log queries
	// and contract calls.
	RPCHTTPURL string `envconfig:"RPC_HTTP_URL" validate:"required,url"`

	// RPCWSURL, when set, carries the live log subscription instead of polling.
	RPCWSURL string `envconfig:"RPC_WS_URL" validate:"omitempty,url"`

	TokenAddress  string `envconfig:"TOKEN_ADDRESS" validate:"required,eth_addr"`
	TokenDecimals int32  `envconfig:"TOKEN_DECIMALS" default:"18" validate:"min=0,max=36"`

	// RedisURL enables the shared block timestamp cache.
	RedisURL string `envconfig:"REDIS_URL" validate:"omitempty,url"`

	WindowSize      uint64        `envconfig:"WINDOW_SIZE" default:"50000" validate:"gt=0"`
	LocalNetworks   []string      `envconfig:"LOCAL_NETWORKS" default:"31337,1337" validate:"dive,numeric"`
	TransferRefresh string        `envconfig:"TRANSFER_REFRESH" default:"all" validate:"oneof=all related"`
	ConfirmReads    bool          `envconfig:"CONFIRM_ALLOWANCES" default:"true"`
	Concurrency     int           `envconfig:"CONCURRENCY" default:"8" validate:"min=1,max=64"`
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"12s" validate:"gt=0"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	ReloadTimeout   time.Duration `envconfig:"RELOAD_TIMEOUT" default:"2m" validate:"gt=0"`

	// HTTPRetry* tune the retries of a single node request; RetryAttempts
	// bounds the attempts of each ledger read made by a reload.
	HTTPRetryMax     int           `envconfig:"HTTP_RETRY_MAX" default:"3" validate:"min=0,max=10"`
	HTTPRetryWaitMin time.Duration `envconfig:"HTTP_RETRY_WAIT_MIN" default:"500ms" validate:"gt=0"`
	HTTPRetryWaitMax time.Duration `envconfig:"HTTP_RETRY_WAIT_MAX" default:"5s" validate:"gtefield=HTTPRetryWaitMin"`
	RetryAttempts    uint          `envconfig:"RETRY_ATTEMPTS" default:"3" validate:"min=1,max=10"`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
