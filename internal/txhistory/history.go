// Package txhistory builds the chronological transaction history of a subject
// address and resolves the block timestamps its entries are shown with.
package txhistory

import (
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/types"
)

// Role classifies an event relative to the subject.
type Role string

const (
	RoleSent     Role = "sent"
	RoleReceived Role = "received"
	RoleOwner    Role = "owner"
	RoleSpender  Role = "spender"
)

// RoleOf returns the role subject plays in e. A transfer to self is sent and
// an approval of self is owner. The boolean is false when subject is not
// involved.
func RoleOf(subject common.Address, e ledger.Event) (Role, bool) {
	switch {
	case e.Transfer != nil && e.Transfer.From == subject:
		return RoleSent, true
	case e.Transfer != nil && e.Transfer.To == subject:
		return RoleReceived, true
	case e.Approval != nil && e.Approval.Owner == subject:
		return RoleOwner, true
	case e.Approval != nil && e.Approval.Spender == subject:
		return RoleSpender, true
	default:
		return "", false
	}
}

// Entry is one line of the history.
type Entry struct {
	ledger.Event
	Role Role
}

// History is the ordered list of entries of one subject, most recent first.
// Entries only ever gain a timestamp; the list is otherwise append-only until
// it is replaced with Build. History is not safe for concurrent use.
type History struct {
	subject common.Address
	entries []ledger.Event
	roles   map[ledger.Key]Role
}

// New returns an empty history for subject.
func New(subject common.Address) *History {
	return &History{subject: subject, roles: make(map[ledger.Key]Role)}
}

// Subject returns the address the history is built for.
func (h *History) Subject() common.Address {
	return h.subject
}

// Build returns a history holding every event of events that involves
// subject. Duplicated keys are kept once.
func Build(subject common.Address, events []ledger.Event) *History {
	h := New(subject)
	for _, e := range events {
		role, ok := RoleOf(subject, e)
		if !ok {
			continue
		}
		if _, dup := h.roles[e.Key()]; dup {
			continue
		}
		h.roles[e.Key()] = role
		h.entries = append(h.entries, e.Clone())
	}
	ledger.Sort(h.entries)
	return h
}

// Insert places e at its chronological position. It returns false when e does
// not involve the subject or is already present.
func (h *History) Insert(e ledger.Event) bool {
	role, ok := RoleOf(h.subject, e)
	if !ok {
		return false
	}
	if _, dup := h.roles[e.Key()]; dup {
		return false
	}

	h.roles[e.Key()] = role
	h.entries = slices.Insert(h.entries, ledger.InsertionIndex(h.entries, e), e.Clone())
	return true
}

// PatchTimestamps attaches resolved block times. Order never changes. It
// returns how many entries were patched.
func (h *History) PatchTimestamps(resolved map[uint64]int64) int {
	var n int
	for i := range h.entries {
		e := &h.entries[i]
		ts, ok := resolved[e.BlockNumber]
		if !ok || e.Timestamp != nil {
			continue
		}
		e.Timestamp = &ts
		n++
	}
	return n
}

// Unresolved returns the distinct block numbers of entries lacking a
// timestamp, ascending.
func (h *History) Unresolved() []uint64 {
	blocks := types.NewSet[uint64]()
	for _, e := range h.entries {
		if e.Timestamp == nil {
			blocks.Add(e.BlockNumber)
		}
	}
	return types.Sorted(blocks)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[i] = Entry{Event: e.Clone(), Role: h.roles[e.Key()]}
	}
	return out
}
