package allowance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
)

// ErrConfirmatoryReadFailed wraps a failed on-chain allowance read. The row it
// belongs to is dropped from the result.
var ErrConfirmatoryReadFailed = errors.New("confirmatory allowance read failed")

// Reader reads the allowance currently held by the contract.
type Reader interface {
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
}

// Record is one row of an allowance table.
type Record struct {
	Counterparty common.Address

	// Amount is the allowance in force. It equals Approved unless a Reader
	// confirmed a different value, e.g. after transferFrom spent part of it.
	Amount *big.Int

	// Approved, BlockNumber and TxHash describe the most recent Approval.
	Approved    *big.Int
	BlockNumber uint64
	TxHash      common.Hash
}

// Failure reports a row dropped because its confirmatory read failed.
type Failure struct {
	Counterparty common.Address
	Err          error
}

// Result is the outcome of one projection.
type Result struct {
	Records  []Record
	Failures []Failure
}

// Err joins the failures, nil when there are none.
func (r Result) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// Latest folds approvals into one row per counterparty holding the most
// recent approval by ledger position. Approvals are replacements, never
// summed. Rows whose latest amount is zero are dropped. Events that are not
// Approvals of subject from perspective p are ignored.
func Latest(subject common.Address, p Perspective, approvals []ledger.Event) []Record {
	relevant := make([]ledger.Event, 0, len(approvals))
	for _, e := range approvals {
		if p.Touches(subject, e) {
			relevant = append(relevant, e)
		}
	}
	ledger.Sort(relevant)

	seen := make(map[common.Address]struct{}, len(relevant))
	records := make([]Record, 0, len(relevant))
	for _, e := range relevant {
		counterparty := p.counterparty(e.Approval)
		if _, ok := seen[counterparty]; ok {
			continue
		}
		seen[counterparty] = struct{}{}

		if e.Approval.Amount == nil || e.Approval.Amount.Sign() == 0 {
			continue
		}

		records = append(records, Record{
			Counterparty: counterparty,
			Amount:       new(big.Int).Set(e.Approval.Amount),
			Approved:     new(big.Int).Set(e.Approval.Amount),
			BlockNumber:  e.BlockNumber,
			TxHash:       e.TxHash,
		})
	}

	sortRecords(records)
	return records
}

// Projector computes allowance tables and, when a Reader is configured,
// confirms each row against the contract.
type Projector struct {
	reader      Reader
	concurrency int
}

// Option customizes NewProjector.
type Option func(*Projector)

// WithConcurrency bounds the confirmatory reads in flight. Default 8.
func WithConcurrency(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProjector returns a Projector. reader may be nil to skip confirmation.
func NewProjector(reader Reader, opts ...Option) *Projector {
	p := &Projector{reader: reader, concurrency: 8}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project builds the table of subject from perspective p. Confirmatory reads
// run concurrently; a failed read drops only its row and is listed in
// Result.Failures, and a confirmed zero drops the row silently.
func (pr *Projector) Project(ctx context.Context, subject common.Address, p Perspective, approvals []ledger.Event) Result {
	records := Latest(subject, p, approvals)
	if pr.reader == nil || len(records) == 0 {
		return Result{Records: records}
	}

	var (
		mu       sync.Mutex
		kept     = make([]Record, 0, len(records))
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pr.concurrency)
	for _, record := range records {
		g.Go(func() error {
			owner, spender := p.pair(subject, record.Counterparty)
			current, err := pr.reader.Allowance(gctx, owner, spender)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures = append(failures, Failure{
					Counterparty: record.Counterparty,
					Err:          fmt.Errorf("%w: owner %s spender %s: %w", ErrConfirmatoryReadFailed, owner.Hex(), spender.Hex(), err),
				})
				return nil
			}
			if current == nil || current.Sign() == 0 {
				return nil
			}

			record.Amount = new(big.Int).Set(current)
			kept = append(kept, record)
			return nil
		})
	}
	_ = g.Wait()

	sortRecords(kept)
	slices.SortFunc(failures, func(a, b Failure) int {
		return bytes.Compare(a.Counterparty[:], b.Counterparty[:])
	})

	if len(failures) > 0 {
		logger.Warn(ctx, "allowance rows dropped after failed confirmatory reads",
			"subject", subject.Hex(),
			"perspective", p.String(),
			"dropped", len(failures),
			"kept", len(kept),
		)
	}

	return Result{Records: kept, Failures: failures}
}

func sortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return bytes.Compare(a.Counterparty[:], b.Counterparty[:])
	})
}
