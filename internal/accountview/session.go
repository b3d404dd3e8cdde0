// Package accountview keeps the transaction history and the allowance tables
// of one subject address consistent with a ledger. A reload backfills a block
// window; the live feed applies new events on top of whatever baseline the
// session holds, so events delivered during a reload are never lost.
package accountview

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
	"github.com/gabapcia/ledgerview/internal/txhistory"
)

// unrelatedKeys is how many live events not involving the subject are
// remembered, so a redelivered one does not refresh projections again.
const unrelatedKeys = 4096

var (
	// ErrCollaboratorUnavailable wraps ledger failures that prevented a reload
	// or a subscription.
	ErrCollaboratorUnavailable = errors.New("ledger unavailable")

	// ErrNotTracking is returned by operations that need a subject when the
	// session is idle.
	ErrNotTracking = errors.New("session is not tracking an address")

	// ErrSessionClosed is returned after Close.
	ErrSessionClosed = errors.New("session closed")

	// ErrReloadDiscarded is returned by a reload whose subscription was torn
	// down, or whose context ended, before its result could be applied.
	ErrReloadDiscarded = errors.New("reload result discarded")
)

// Session owns the views of the address it tracks. It is idle after New and
// subscribed between Track and Untrack. All methods are safe for concurrent
// use.
type Session struct {
	id        string
	ledger    ledger.Ledger
	cfg       config
	enricher  *txhistory.Enricher
	projector *allowance.Projector
	metrics   *metrics
	tasks     tasks

	// trackMu serializes Track, Untrack and Close.
	trackMu  sync.Mutex
	notifyMu sync.Mutex

	mu     sync.Mutex
	closed bool
	sub    *subscription
}

// New returns an idle session reading from l.
func New(l ledger.Ledger, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	enricherOpts := []txhistory.EnricherOption{txhistory.WithConcurrency(cfg.concurrency)}
	if cfg.cache != nil {
		enricherOpts = append(enricherOpts, txhistory.WithCache(cfg.cache))
	}

	var reader allowance.Reader
	if cfg.confirmReads {
		reader = l
	}

	return &Session{
		id:        uuid.Must(uuid.NewV7()).String(),
		ledger:    l,
		cfg:       cfg,
		enricher:  txhistory.NewEnricher(l, enricherOpts...),
		projector: allowance.NewProjector(reader, allowance.WithConcurrency(cfg.concurrency)),
		metrics:   newMetrics(),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// subscription is the state bound to one tracked subject. Handlers keep a
// pointer to it; once it is no longer Session.sub they do nothing.
type subscription struct {
	id       string
	subject  common.Address
	handlers []*handler
	ctx      context.Context
	cancel   context.CancelFunc

	// Guarded by Session.mu.
	network    string
	events     *ledger.EventSet
	history    *txhistory.History
	blockTimes map[uint64]int64
	reloads    map[*reload]struct{}
	tables     map[allowance.Perspective]*table
	unrelated  *lru.Cache[ledger.Key, struct{}]
	err        error
}

// reload collects the live events delivered while it is in flight.
type reload struct {
	live []ledger.Event
}

// table is one allowance view. Projections are stamped when requested; a result
// is applied only if no newer one was applied before it.
type table struct {
	issued   uint64
	applied  uint64
	records  []allowance.Record
	failures []allowance.Failure
}

func (t *table) loading() bool {
	return t.applied < t.issued
}

func (t *table) has(counterparty common.Address) bool {
	for _, r := range t.records {
		if r.Counterparty == counterparty {
			return true
		}
	}
	return false
}

func newSubscription(ctx context.Context, subject common.Address) *subscription {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	tables := make(map[allowance.Perspective]*table, len(allowance.Perspectives))
	for _, p := range allowance.Perspectives {
		tables[p] = &table{}
	}

	// New only fails for a non-positive size.
	unrelated, _ := lru.New[ledger.Key, struct{}](unrelatedKeys)

	return &subscription{
		id:         uuid.Must(uuid.NewV7()).String(),
		subject:    subject,
		ctx:        ctx,
		cancel:     cancel,
		events:     ledger.NewEventSet(),
		history:    txhistory.New(subject),
		blockTimes: make(map[uint64]int64),
		reloads:    make(map[*reload]struct{}),
		tables:     tables,
		unrelated:  unrelated,
	}
}

func (sub *subscription) beginReload() *reload {
	r := &reload{}
	sub.reloads[r] = struct{}{}
	return r
}

// issue stamps a new projection request for each perspective.
func (sub *subscription) issue(perspectives ...allowance.Perspective) map[allowance.Perspective]uint64 {
	seqs := make(map[allowance.Perspective]uint64, len(perspectives))
	for _, p := range perspectives {
		t := sub.tables[p]
		t.issued++
		seqs[p] = t.issued
	}
	return seqs
}

// Track switches the session to subject. The previous subscription, if any, is
// torn down first and every handler it registered is removed. Track returns
// once the new handlers are registered; the initial reload runs in the
// background, see Wait.
func (s *Session) Track(ctx context.Context, subject common.Address) error {
	s.trackMu.Lock()
	defer s.trackMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	previous := s.sub
	s.sub = nil
	s.mu.Unlock()

	s.teardown(ctx, previous)

	sub := newSubscription(ctx, subject)

	s.mu.Lock()
	s.sub = sub
	r := sub.beginReload()
	s.mu.Unlock()

	if err := s.subscribe(sub); err != nil {
		s.mu.Lock()
		s.sub = nil
		s.mu.Unlock()

		s.teardown(ctx, sub)
		return fmt.Errorf("%w: subscribe: %w", ErrCollaboratorUnavailable, err)
	}

	logger.Info(ctx, "tracking address",
		"session", s.id,
		"subscription", sub.id,
		"subject", subject.Hex(),
	)

	s.tasks.goFunc(func() {
		ctx, cancel := context.WithTimeout(sub.ctx, s.cfg.reloadTimeout)
		defer cancel()

		_ = s.runReload(ctx, sub, r)
	})

	return nil
}

// Untrack returns the session to idle. It is a no-op when already idle.
func (s *Session) Untrack(ctx context.Context) error {
	s.trackMu.Lock()
	defer s.trackMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	previous := s.sub
	s.sub = nil
	s.mu.Unlock()

	s.teardown(ctx, previous)
	return nil
}

// Close untracks and waits until background work has stopped or ctx is done.
// The session cannot be used afterwards. Close must not be called from the
// listener.
func (s *Session) Close(ctx context.Context) error {
	s.trackMu.Lock()
	defer s.trackMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	previous := s.sub
	s.sub = nil
	s.mu.Unlock()

	s.teardown(ctx, previous)
	return s.tasks.wait(ctx)
}

// Wait blocks until every reload, timestamp lookup and projection started so
// far has finished.
func (s *Session) Wait(ctx context.Context) error {
	return s.tasks.wait(ctx)
}

// Reload rebuilds the views from a fresh backfill and returns when the new
// history is in place. Allowances and timestamps follow in the background.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	sub := s.sub
	if sub == nil {
		s.mu.Unlock()
		return ErrNotTracking
	}
	r := sub.beginReload()
	s.mu.Unlock()

	s.tasks.add()
	defer s.tasks.done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sub.ctx, cancel)
	defer stop()

	return s.runReload(ctx, sub, r)
}

func (s *Session) subscribe(sub *subscription) error {
	for _, kind := range ledger.Kinds {
		h := &handler{session: s, sub: sub, kind: kind}
		if err := s.ledger.Subscribe(kind, h); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		sub.handlers = append(sub.handlers, h)
	}
	return nil
}

// teardown cancels the background work of sub and removes its handlers.
func (s *Session) teardown(ctx context.Context, sub *subscription) {
	if sub == nil {
		return
	}

	sub.cancel()
	for _, h := range sub.handlers {
		if err := s.ledger.Unsubscribe(h.kind, h); err != nil {
			logger.Warn(ctx, "failed to unsubscribe handler",
				"session", s.id,
				"subscription", sub.id,
				"kind", h.kind,
				"error", err,
			)
		}
	}

	logger.Info(ctx, "stopped tracking address",
		"session", s.id,
		"subscription", sub.id,
		"subject", sub.subject.Hex(),
	)
}

func (s *Session) notify(u Update) {
	if s.cfg.listener == nil {
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.cfg.listener(u)
}

// History returns a copy of the history view. It is the zero snapshot when the
// session is idle.
func (s *Session) History() HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.sub
	if sub == nil {
		return HistorySnapshot{}
	}

	return HistorySnapshot{
		Subject:  sub.subject,
		Tracking: true,
		Entries:  sub.history.Entries(),
		Loading:  len(sub.reloads) > 0,
		Err:      sub.err,
	}
}

// Allowances returns a copy of the table of perspective p.
func (s *Session) Allowances(p allowance.Perspective) AllowanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.sub
	if sub == nil {
		return AllowanceSnapshot{Perspective: p}
	}

	t, ok := sub.tables[p]
	if !ok {
		return AllowanceSnapshot{Subject: sub.subject, Perspective: p}
	}

	records := make([]allowance.Record, len(t.records))
	for i, r := range t.records {
		r.Amount = new(big.Int).Set(r.Amount)
		r.Approved = new(big.Int).Set(r.Approved)
		records[i] = r
	}

	return AllowanceSnapshot{
		Subject:     sub.subject,
		Perspective: p,
		Records:     records,
		Failures:    append([]allowance.Failure(nil), t.failures...),
		Loading:     t.loading() || len(sub.reloads) > 0,
		Err:         sub.err,
	}
}
