package ethereum

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
	"github.com/gabapcia/ledgerview/internal/pkg/x/chflow"
)

// ErrHandlerNotRegistered is returned by Unsubscribe for an unknown handler.
var ErrHandlerNotRegistered = errors.New("handler not registered")

// Subscribe implements ledger.Ledger. The live feed starts with the first
// handler, from the block after the head read here, so every block mined once
// Subscribe returns reaches the handlers.
func (c *Client) Subscribe(kind ledger.Kind, h ledger.Handler) error {
	if _, ok := signatureOf(kind); !ok {
		return ledger.ErrUnknownEventKind
	}

	var (
		start    uint64
		hasStart bool
	)
	for {
		c.mu.Lock()
		if c.stopFeed != nil || hasStart {
			c.handlers[kind] = append(c.handlers[kind], h)
			if c.stopFeed == nil {
				c.startFeed(start)
			}
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), c.headTimeout)
		head, err := c.CurrentHeight(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("read chain head: %w", err)
		}
		start, hasStart = head+1, true
	}
}

// startFeed runs the feed from block next. Must be called with c.mu held.
func (c *Client) startFeed(next uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopFeed = cancel
	c.feedWG.Add(1)
	go func() {
		defer c.feedWG.Done()
		c.runFeed(ctx, next)
	}()
}

// Unsubscribe implements ledger.Ledger. It does not wait for the feed, so it
// may be called from a handler. The feed stops with the last handler.
func (c *Client) Unsubscribe(kind ledger.Kind, h ledger.Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	hs := c.handlers[kind]
	i := slices.Index(hs, h)
	if i < 0 {
		return ErrHandlerNotRegistered
	}
	c.handlers[kind] = slices.Delete(slices.Clone(hs), i, i+1)

	if c.handlerCountLocked() == 0 && c.stopFeed != nil {
		c.stopFeed()
		c.stopFeed = nil
	}
	return nil
}

func (c *Client) handlerCountLocked() int {
	var n int
	for _, hs := range c.handlers {
		n += len(hs)
	}
	return n
}

// dispatch hands log to the handlers of its kind, one at a time. The handler
// list is read per log, so handlers removed before the read are skipped.
func (c *Client) dispatch(ctx context.Context, log types.Log) {
	if log.Removed {
		return
	}

	raw := decodeLog(log)

	c.mu.Lock()
	hs := c.handlers[ledger.Kind(raw.EventName)]
	c.mu.Unlock()

	for _, h := range hs {
		h.HandleLog(ctx, raw)
	}
}

func (c *Client) runFeed(ctx context.Context, next uint64) {
	if c.streaming {
		c.stream(ctx, next)
		return
	}
	c.poll(ctx, next)
}

// stream follows eth_subscribe logs from block next. Each time a subscription
// opens, the blocks from the cursor to the head are read with FilterLogs, so
// blocks mined while no subscription was open are not skipped. The cursor is
// the block of the last streamed log, which is read again on reconnect since
// the subscription may have dropped in the middle of it.
func (c *Client) stream(ctx context.Context, next uint64) {
	query := c.filterQuery(ledger.Kinds, ledger.Filter{}, 0, nil)
	query.FromBlock = nil

	for ctx.Err() == nil {
		logs := make(chan types.Log, 64)
		sub, err := c.eth.SubscribeFilterLogs(ctx, query, logs)
		if err != nil {
			logger.Warn(ctx, "log subscription failed", "token", c.token.Hex(), "error", err)
			if !sleep(ctx, c.resubscribe) {
				return
			}
			continue
		}

		caughtUp, err := c.pollOnce(ctx, next)
		if err != nil {
			logger.Warn(ctx, "could not catch up before streaming", "token", c.token.Hex(), "from", next, "error", err)
			sub.Unsubscribe()
			if !sleep(ctx, c.resubscribe) {
				return
			}
			continue
		}

		next = c.consume(ctx, sub.Err(), logs, caughtUp)
		sub.Unsubscribe()
	}
}

// consume dispatches logs until the subscription fails or ctx ends, and
// returns the block a new subscription must catch up from.
func (c *Client) consume(ctx context.Context, errs <-chan error, logs <-chan types.Log, next uint64) uint64 {
	for {
		select {
		case <-ctx.Done():
			return next
		case err := <-errs:
			if err != nil {
				logger.Warn(ctx, "log subscription dropped", "token", c.token.Hex(), "error", err)
			}
			sleep(ctx, c.resubscribe)
			return next
		case log, ok := <-logs:
			if !ok {
				return next
			}
			c.dispatch(ctx, log)
			if !log.Removed && log.BlockNumber > next {
				next = log.BlockNumber
			}
		}
	}
}

// poll asks for the logs of new blocks every poll interval, starting at
// block next.
func (c *Client) poll(ctx context.Context, next uint64) {
	for sleep(ctx, c.pollInterval) {
		if n, err := c.pollOnce(ctx, next); err == nil {
			next = n
		} else {
			logger.Warn(ctx, "could not read new logs", "token", c.token.Hex(), "from", next, "error", err)
		}
	}
}

// pollOnce dispatches the logs of blocks [next, head] in chain order and
// returns the next block to ask for. On failure nothing is skipped: the
// caller asks again from next.
func (c *Client) pollOnce(ctx context.Context, next uint64) (uint64, error) {
	head, err := c.CurrentHeight(ctx)
	if err != nil {
		return next, fmt.Errorf("current height: %w", err)
	}
	if head < next {
		return next, nil
	}

	logs, err := c.eth.FilterLogs(ctx, c.filterQuery(ledger.Kinds, ledger.Filter{}, next, &head))
	if err != nil {
		return next, fmt.Errorf("logs of blocks %d to %d: %w", next, head, err)
	}

	slices.SortFunc(logs, func(a, b types.Log) int {
		if n := cmp.Compare(a.BlockNumber, b.BlockNumber); n != 0 {
			return n
		}
		return cmp.Compare(a.Index, b.Index)
	})

	for _, log := range logs {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		c.dispatch(ctx, log)
	}

	return head + 1, nil
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	_, ok := chflow.Receive(ctx, timer.C)
	return ok
}
