// Package ledger models the ERC-20 events a token contract emits and the pieces
// every derived view is built from: normalization of raw logs, the identity
// key, the chronological order and a deduplicating event set.
package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind names an event variant. Values match the Solidity event names.
type Kind string

const (
	KindTransfer Kind = "Transfer"
	KindApproval Kind = "Approval"
)

// Kinds lists every kind a session subscribes to.
var Kinds = []Kind{KindTransfer, KindApproval}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindTransfer || k == KindApproval
}

// Key identifies an event across the whole ledger.
type Key struct {
	TxHash   common.Hash
	LogIndex uint
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.TxHash.Hex(), k.LogIndex)
}

// Transfer is the payload of a Transfer(from, to, value) event.
type Transfer struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
}

// Approval is the payload of an Approval(owner, spender, value) event.
type Approval struct {
	Owner   common.Address
	Spender common.Address
	Amount  *big.Int
}

// Event is a normalized ledger event. Exactly one of Transfer or Approval is
// set, matching Kind.
type Event struct {
	Kind        Kind
	TxHash      common.Hash
	BlockNumber uint64
	LogIndex    uint

	// Timestamp is the block time in unix seconds, nil until resolved.
	Timestamp *int64

	Transfer *Transfer
	Approval *Approval
}

// Key returns the identity key of the event.
func (e Event) Key() Key {
	return Key{TxHash: e.TxHash, LogIndex: e.LogIndex}
}

// Position returns where the event sits on the chain.
func (e Event) Position() (block uint64, logIndex uint) {
	return e.BlockNumber, e.LogIndex
}

// Involves reports whether addr takes part in the event in any role.
func (e Event) Involves(addr common.Address) bool {
	switch {
	case e.Transfer != nil:
		return e.Transfer.From == addr || e.Transfer.To == addr
	case e.Approval != nil:
		return e.Approval.Owner == addr || e.Approval.Spender == addr
	default:
		return false
	}
}

// Amount returns the value carried by the payload.
func (e Event) Amount() *big.Int {
	switch {
	case e.Transfer != nil:
		return e.Transfer.Amount
	case e.Approval != nil:
		return e.Approval.Amount
	default:
		return nil
	}
}

// Equal compares everything but the timestamp, which is attached after the
// event has been merged and never makes two events different.
func (e Event) Equal(o Event) bool {
	if e.Kind != o.Kind || e.TxHash != o.TxHash || e.BlockNumber != o.BlockNumber || e.LogIndex != o.LogIndex {
		return false
	}

	switch {
	case e.Transfer != nil && o.Transfer != nil:
		return e.Transfer.From == o.Transfer.From &&
			e.Transfer.To == o.Transfer.To &&
			amountEqual(e.Transfer.Amount, o.Transfer.Amount)
	case e.Approval != nil && o.Approval != nil:
		return e.Approval.Owner == o.Approval.Owner &&
			e.Approval.Spender == o.Approval.Spender &&
			amountEqual(e.Approval.Amount, o.Approval.Amount)
	default:
		return e.Transfer == nil && o.Transfer == nil && e.Approval == nil && o.Approval == nil
	}
}

// Clone returns a deep copy so the receiver can be handed out without
// exposing internal amounts or timestamps.
func (e Event) Clone() Event {
	out := e
	if e.Timestamp != nil {
		ts := *e.Timestamp
		out.Timestamp = &ts
	}
	if e.Transfer != nil {
		t := *e.Transfer
		t.Amount = copyAmount(t.Amount)
		out.Transfer = &t
	}
	if e.Approval != nil {
		a := *e.Approval
		a.Amount = copyAmount(a.Amount)
		out.Approval = &a
	}
	return out
}

func amountEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func copyAmount(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
