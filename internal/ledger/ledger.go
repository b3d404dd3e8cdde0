package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RawLog is a decoded but not yet validated log record as delivered by a
// Ledger, either from a range query or from the live feed.
type RawLog struct {
	EventName   string
	Args        []any
	BlockNumber uint64
	LogIndex    uint
	TxHash      common.Hash
}

// Filter restricts a query on the indexed event arguments. First is the
// sender (Transfer) or owner (Approval), Second the recipient or spender. A nil
// field matches any address.
type Filter struct {
	First  *common.Address
	Second *common.Address
}

// Matches reports whether e satisfies the filter.
func (f Filter) Matches(e Event) bool {
	var first, second common.Address
	switch {
	case e.Transfer != nil:
		first, second = e.Transfer.From, e.Transfer.To
	case e.Approval != nil:
		first, second = e.Approval.Owner, e.Approval.Spender
	default:
		return false
	}

	if f.First != nil && *f.First != first {
		return false
	}
	if f.Second != nil && *f.Second != second {
		return false
	}
	return true
}

// Handler receives live notifications. Implementations must be comparable
// (typically a pointer) so that Unsubscribe can find them again.
type Handler interface {
	HandleLog(ctx context.Context, log RawLog)
}

// Ledger is the collaborator every view reads the chain through.
//
// Delivery on subscriptions is at-least-once and the order across kinds is not
// guaranteed. QueryEvents results come in no particular order.
type Ledger interface {
	// CurrentHeight returns the latest block number.
	CurrentHeight(ctx context.Context) (uint64, error)

	// NetworkID returns the chain identifier as a decimal string.
	NetworkID(ctx context.Context) (string, error)

	// QueryEvents returns the events of kind matching filter in [from, to]. A nil
	// to means the latest block.
	QueryEvents(ctx context.Context, kind Kind, filter Filter, from uint64, to *uint64) ([]RawLog, error)

	// Subscribe registers h for live events of kind, from the block after the
	// chain head at the time the live feed starts. A log may be delivered
	// more than once, such as after the feed reconnects.
	Subscribe(kind Kind, h Handler) error

	// Unsubscribe removes a handler registered with Subscribe. It must not
	// block on delivery, so a notification already being dispatched may still
	// reach h after it returns.
	Unsubscribe(kind Kind, h Handler) error

	// BlockTimestamp returns the unix time of block.
	BlockTimestamp(ctx context.Context, block uint64) (int64, error)

	// Allowance reads the current allowance of spender over owner's tokens.
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
}
