package accountview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
	"github.com/gabapcia/ledgerview/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgerview/internal/txhistory"
)

// backfill is what a reload read from the ledger.
type backfill struct {
	network string
	height  uint64
	window  Window
	events  []ledger.Event
}

type query struct {
	kind   ledger.Kind
	filter ledger.Filter
}

// queriesFor lists the four range queries that cover every event of subject.
func queriesFor(subject common.Address) []query {
	return []query{
		{kind: ledger.KindTransfer, filter: ledger.Filter{First: &subject}},
		{kind: ledger.KindTransfer, filter: ledger.Filter{Second: &subject}},
		{kind: ledger.KindApproval, filter: ledger.Filter{First: &subject}},
		{kind: ledger.KindApproval, filter: ledger.Filter{Second: &subject}},
	}
}

// fetchBackfill reads the chain head and the window of events of subject.
// Transient failures are retried.
func (s *Session) fetchBackfill(ctx context.Context, subject common.Address) (backfill, error) {
	var out backfill

	err := s.cfg.retry.Execute(ctx, func() error {
		height, err := s.ledger.CurrentHeight(ctx)
		out.height = height
		return err
	})
	if err != nil {
		return out, fmt.Errorf("current height: %w", err)
	}

	err = s.cfg.retry.Execute(ctx, func() error {
		network, err := s.ledger.NetworkID(ctx)
		out.network = network
		return err
	})
	if err != nil {
		return out, fmt.Errorf("network id: %w", err)
	}

	out.window = SelectWindow(out.height, out.network, s.cfg.window)

	queries := queriesFor(subject)
	results := make([][]ledger.RawLog, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			err := s.cfg.retry.Execute(gctx, func() error {
				logs, err := s.ledger.QueryEvents(gctx, q.kind, q.filter, out.window.From, out.window.To)
				if errors.Is(err, ledger.ErrUnknownEventKind) {
					return retry.Unrecoverable(err)
				}
				if err != nil {
					return err
				}
				results[i] = logs
				return nil
			})
			if err != nil {
				return fmt.Errorf("query %s events from block %d: %w", q.kind, out.window.From, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	var raws []ledger.RawLog
	for _, logs := range results {
		raws = append(raws, logs...)
	}

	events, err := ledger.NormalizeAll(raws)
	if err != nil {
		s.metrics.recordRejected(ctx, "backfill", len(raws)-len(events))
		logger.Warn(ctx, "skipping logs that could not be normalized",
			"session", s.id,
			"rejected", len(raws)-len(events),
			"error", err,
		)
	}
	out.events = events

	return out, nil
}

// mergeInto inserts events into set and counts the outcomes.
func (s *Session) mergeInto(ctx context.Context, source string, set *ledger.EventSet, events []ledger.Event) {
	var added, duplicates, conflicts int
	for _, e := range events {
		ok, err := set.Insert(e)
		switch {
		case err != nil:
			conflicts++
			logger.Error(ctx, "event conflicts with a merged event",
				"session", s.id,
				"source", source,
				"key", e.Key().String(),
				"error", err,
			)
		case ok:
			added++
		default:
			duplicates++
		}
	}
	s.metrics.recordMerge(ctx, source, added, duplicates, conflicts)
}

// runReload backfills sub and swaps its views. The result is checked against
// the current subscription when it arrives; if sub was torn down meanwhile it
// is discarded.
func (s *Session) runReload(ctx context.Context, sub *subscription, r *reload) error {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "Reload", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("subject", sub.subject.Hex()),
	))
	defer span.End()

	data, err := s.fetchBackfill(ctx, sub.subject)

	s.mu.Lock()
	delete(sub.reloads, r)

	if s.sub != sub || ctx.Err() != nil {
		s.mu.Unlock()

		s.metrics.recordReload(ctx, start, "discarded")
		span.SetStatus(codes.Error, "discarded")
		logger.Debug(ctx, "discarding reload of a stale subscription",
			"session", s.id,
			"subscription", sub.id,
		)
		return ErrReloadDiscarded
	}

	if err != nil {
		failure := fmt.Errorf("%w: %w", ErrCollaboratorUnavailable, err)
		sub.err = failure
		s.mu.Unlock()

		s.metrics.recordReload(ctx, start, "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger unavailable")
		logger.Error(ctx, "reload failed, keeping previous view",
			"session", s.id,
			"subject", sub.subject.Hex(),
			"error", err,
		)

		s.notify(Update{Kind: UpdateReloadFailed, Subject: sub.subject, Err: failure})
		return failure
	}

	set := ledger.NewEventSet()
	s.mergeInto(ctx, "backfill", set, data.events)
	s.mergeInto(ctx, "inflight", set, r.live)

	if data.network != sub.network {
		clear(sub.blockTimes)
	}
	for block, ts := range sub.blockTimes {
		set.SetTimestamp(block, ts)
	}

	history := txhistory.Build(sub.subject, set.Events())

	sub.network = data.network
	sub.events = set
	sub.history = history
	sub.err = nil

	unresolved := history.Unresolved()
	approvals := set.Approvals()
	seqs := sub.issue(allowance.Perspectives...)
	entries := history.Len()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int64("window.from", int64(data.window.From)),
		attribute.Int64("chain.height", int64(data.height)),
		attribute.Int("history.entries", entries),
	)
	s.metrics.recordReload(ctx, start, "ok")
	logger.Info(ctx, "reload complete",
		"session", s.id,
		"subject", sub.subject.Hex(),
		"network", data.network,
		"from_block", data.window.From,
		"height", data.height,
		"entries", entries,
		"inflight", len(r.live),
	)

	s.notify(Update{Kind: UpdateHistoryReloaded, Subject: sub.subject})

	s.scheduleEnrich(sub, data.network, unresolved)
	s.scheduleProjection(sub, approvals, seqs)
	return nil
}

// scheduleEnrich resolves the timestamps of blocks in the background and
// patches them into the current views of sub.
func (s *Session) scheduleEnrich(sub *subscription, network string, blocks []uint64) {
	if len(blocks) == 0 {
		return
	}

	s.tasks.goFunc(func() {
		resolved, _ := s.enricher.Resolve(sub.ctx, network, blocks)
		if len(resolved) == 0 {
			return
		}

		s.mu.Lock()
		if s.sub != sub {
			s.mu.Unlock()
			return
		}
		for block, ts := range resolved {
			sub.blockTimes[block] = ts
			sub.events.SetTimestamp(block, ts)
		}
		patched := sub.history.PatchTimestamps(resolved)
		s.mu.Unlock()

		if patched > 0 {
			s.notify(Update{Kind: UpdateTimestampsPatched, Subject: sub.subject})
		}
	})
}

// scheduleProjection recomputes each stamped perspective in the background.
func (s *Session) scheduleProjection(sub *subscription, approvals []ledger.Event, seqs map[allowance.Perspective]uint64) {
	for p, seq := range seqs {
		s.tasks.goFunc(func() {
			result := s.projector.Project(sub.ctx, sub.subject, p, approvals)

			s.mu.Lock()
			if s.sub != sub || sub.ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			t := sub.tables[p]
			if seq <= t.applied {
				s.mu.Unlock()
				return
			}
			t.applied = seq
			t.records = result.Records
			t.failures = result.Failures
			s.mu.Unlock()

			s.notify(Update{
				Kind:        UpdateAllowancesChanged,
				Subject:     sub.subject,
				Perspective: p,
				Err:         result.Err(),
			})
		})
	}
}
