package accountview

import (
	"context"

	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
)

// handler is what a subscription registers with the ledger. It is compared by
// pointer on Unsubscribe.
type handler struct {
	session *Session
	sub     *subscription
	kind    ledger.Kind
}

var _ ledger.Handler = (*handler)(nil)

func (h *handler) HandleLog(ctx context.Context, raw ledger.RawLog) {
	h.session.handleLog(ctx, h.sub, raw)
}

// handleLog applies one live notification. Merge, history insertion and the
// choice of projections to refresh happen under the session lock, so each
// notification is atomic with respect to the others.
func (s *Session) handleLog(ctx context.Context, sub *subscription, raw ledger.RawLog) {
	event, err := ledger.Normalize(raw)
	if err != nil {
		s.metrics.recordRejected(ctx, "live", 1)
		logger.Warn(ctx, "dropping live log",
			"session", s.id,
			"event", raw.EventName,
			"block", raw.BlockNumber,
			"error", err,
		)
		return
	}

	s.mu.Lock()
	if s.sub != sub {
		s.mu.Unlock()
		return
	}

	involved := event.Involves(sub.subject)
	if involved {
		for r := range sub.reloads {
			r.live = append(r.live, event)
		}

		added, err := sub.events.Insert(event)
		if err != nil {
			s.mu.Unlock()
			s.metrics.recordMerge(ctx, "live", 0, 0, 1)
			logger.Error(ctx, "live event conflicts with a merged event",
				"session", s.id,
				"key", event.Key().String(),
				"error", err,
			)
			return
		}
		if !added {
			s.mu.Unlock()
			s.metrics.recordMerge(ctx, "live", 0, 1, 0)
			return
		}
		sub.history.Insert(event)
	} else if seen, _ := sub.unrelated.ContainsOrAdd(event.Key(), struct{}{}); seen {
		s.mu.Unlock()
		s.metrics.recordMerge(ctx, "live", 0, 1, 0)
		return
	}

	refresh := s.affected(sub, event)
	if !involved && len(refresh) == 0 {
		s.mu.Unlock()
		return
	}

	var (
		seqs       = sub.issue(refresh...)
		approvals  []ledger.Event
		unresolved []uint64
		network    = sub.network
	)
	if len(seqs) > 0 {
		approvals = sub.events.Approvals()
	}
	if involved {
		if ts, ok := sub.blockTimes[event.BlockNumber]; ok {
			sub.events.SetTimestamp(event.BlockNumber, ts)
			sub.history.PatchTimestamps(map[uint64]int64{event.BlockNumber: ts})
		} else {
			unresolved = []uint64{event.BlockNumber}
		}
	}
	s.mu.Unlock()

	if involved {
		s.metrics.recordMerge(ctx, "live", 1, 0, 0)

		prepended := event.Clone()
		s.notify(Update{Kind: UpdateHistoryPrepended, Subject: sub.subject, Event: &prepended})
	}

	s.scheduleEnrich(sub, network, unresolved)
	s.scheduleProjection(sub, approvals, seqs)
}

// affected returns the perspectives event makes stale. An Approval refreshes
// the side it names the subject on. A Transfer refreshes the grantee table,
// either always or only when its sender is one of the owners listed there,
// and the grantor table when the subject's own tokens moved.
//
// Must be called with s.mu held.
func (s *Session) affected(sub *subscription, event ledger.Event) []allowance.Perspective {
	var out []allowance.Perspective

	switch {
	case event.Approval != nil:
		for _, p := range allowance.Perspectives {
			if p.Touches(sub.subject, event) {
				out = append(out, p)
			}
		}

	case event.Transfer != nil:
		from := event.Transfer.From

		switch s.cfg.refresh {
		case RefreshRelatedTransfers:
			if sub.tables[allowance.AsGrantee].has(from) {
				out = append(out, allowance.AsGrantee)
			}
		default:
			out = append(out, allowance.AsGrantee)
		}

		if from == sub.subject && len(sub.tables[allowance.AsGrantor].records) > 0 {
			out = append(out, allowance.AsGrantor)
		}
	}

	return out
}
