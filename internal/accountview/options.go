package accountview

import (
	"time"

	"github.com/gabapcia/ledgerview/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgerview/internal/txhistory"
)

// TransferRefresh selects which Transfer events make the grantee table
// refresh.
type TransferRefresh int

const (
	// RefreshAllTransfers refreshes after every new Transfer of the subject.
	RefreshAllTransfers TransferRefresh = iota

	// RefreshRelatedTransfers refreshes only after a Transfer sent by one of
	// the owners listed in the grantee table.
	RefreshRelatedTransfers
)

type config struct {
	window        WindowPolicy
	refresh       TransferRefresh
	listener      func(Update)
	retry         retry.Retry
	cache         txhistory.TimestampCache
	concurrency   int
	confirmReads  bool
	reloadTimeout time.Duration
}

func defaultConfig() config {
	return config{
		window:        DefaultWindowPolicy(),
		refresh:       RefreshAllTransfers,
		retry:         retry.New(retry.WithDelay(250*time.Millisecond), retry.WithMaxDelay(2*time.Second)),
		concurrency:   8,
		confirmReads:  true,
		reloadTimeout: 2 * time.Minute,
	}
}

// Option customizes New.
type Option func(*config)

// WithWindowPolicy overrides the backfill range policy.
func WithWindowPolicy(p WindowPolicy) Option {
	return func(c *config) {
		c.window = p
	}
}

// WithTransferRefresh sets the grantee refresh policy. Default
// RefreshAllTransfers.
func WithTransferRefresh(r TransferRefresh) Option {
	return func(c *config) {
		c.refresh = r
	}
}

// WithListener registers fn to be called after every state change. Calls are
// serialized and never made while the session lock is held, so fn may read
// the session.
func WithListener(fn func(Update)) Option {
	return func(c *config) {
		c.listener = fn
	}
}

// WithRetry sets the policy used around ledger reads during a reload.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithTimestampCache makes the enricher consult cache before the ledger.
func WithTimestampCache(cache txhistory.TimestampCache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithConcurrency bounds concurrent timestamp lookups and allowance reads.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithoutConfirmation reports projected allowances as-is, skipping the
// on-chain allowance reads.
func WithoutConfirmation() Option {
	return func(c *config) {
		c.confirmReads = false
	}
}

// WithReloadTimeout bounds a background reload started by Track.
func WithReloadTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.reloadTimeout = d
		}
	}
}
