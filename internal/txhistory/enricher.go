package txhistory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gabapcia/ledgerview/internal/pkg/logger"
	"github.com/gabapcia/ledgerview/internal/pkg/types"
)

// ErrTimestampUnavailable wraps a failed lookup of one block.
var ErrTimestampUnavailable = errors.New("block timestamp unavailable")

// BlockClock resolves a block number to its unix timestamp.
type BlockClock interface {
	BlockTimestamp(ctx context.Context, block uint64) (int64, error)
}

// TimestampCache stores resolved block times per network. Block times never
// change once the block is final, so entries do not expire.
type TimestampCache interface {
	// GetTimestamps returns the cached subset of blocks.
	GetTimestamps(ctx context.Context, network string, blocks []uint64) (map[uint64]int64, error)

	// SetTimestamps stores values.
	SetTimestamps(ctx context.Context, network string, values map[uint64]int64) error
}

// Enricher resolves block timestamps with one lookup per distinct block.
type Enricher struct {
	clock       BlockClock
	cache       TimestampCache
	concurrency int
}

// EnricherOption customizes NewEnricher.
type EnricherOption func(*Enricher)

// WithCache consults cache before the clock and writes resolved values back.
func WithCache(cache TimestampCache) EnricherOption {
	return func(e *Enricher) {
		e.cache = cache
	}
}

// WithConcurrency bounds the lookups in flight. Default 8.
func WithConcurrency(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEnricher returns an Enricher reading from clock.
func NewEnricher(clock BlockClock, opts ...EnricherOption) *Enricher {
	e := &Enricher{clock: clock, concurrency: 8}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the timestamps of blocks. A failed block is left out of the
// result and its error joined into the returned one; other blocks still
// resolve. network scopes the cache and an empty network skips it.
func (e *Enricher) Resolve(ctx context.Context, network string, blocks []uint64) (map[uint64]int64, error) {
	pending := types.Sorted(types.NewSet(blocks...))
	resolved := make(map[uint64]int64, len(pending))
	if len(pending) == 0 {
		return resolved, nil
	}

	useCache := e.cache != nil && network != ""
	if useCache {
		cached, err := e.cache.GetTimestamps(ctx, network, pending)
		if err != nil {
			logger.Warn(ctx, "block timestamp cache read failed", "network", network, "error", err)
		}
		for block, ts := range cached {
			resolved[block] = ts
		}
		pending = missing(pending, resolved)
	}

	var (
		mu      sync.Mutex
		fetched = make(map[uint64]int64, len(pending))
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, block := range pending {
		g.Go(func() error {
			ts, err := e.clock.BlockTimestamp(gctx, block)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, fmt.Errorf("%w: block %d: %w", ErrTimestampUnavailable, block, err))
				return nil
			}
			fetched[block] = ts
			return nil
		})
	}
	_ = g.Wait()

	for block, ts := range fetched {
		resolved[block] = ts
	}

	if useCache && len(fetched) > 0 {
		if err := e.cache.SetTimestamps(ctx, network, fetched); err != nil {
			logger.Warn(ctx, "block timestamp cache write failed", "network", network, "error", err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Warn(ctx, "some block timestamps could not be resolved", "failed", len(errs), "resolved", len(resolved), "error", err)
	}

	return resolved, err
}

func missing(blocks []uint64, have map[uint64]int64) []uint64 {
	out := blocks[:0:0]
	for _, b := range blocks {
		if _, ok := have[b]; !ok {
			out = append(out, b)
		}
	}
	return out
}
