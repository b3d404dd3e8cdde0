package ledger

import (
	"bytes"
	"cmp"
	"slices"
)

// Compare orders events most recent first: block number descending, then log
// index descending. Events at the same position are ordered by transaction hash
// descending so the order stays total on inconsistent input.
func Compare(a, b Event) int {
	if c := cmp.Compare(b.BlockNumber, a.BlockNumber); c != 0 {
		return c
	}
	if c := cmp.Compare(b.LogIndex, a.LogIndex); c != 0 {
		return c
	}
	return bytes.Compare(b.TxHash[:], a.TxHash[:])
}

// Sort sorts events in place with Compare.
func Sort(events []Event) {
	slices.SortStableFunc(events, Compare)
}

// InsertionIndex returns where e belongs in events, which must already be
// sorted with Compare.
func InsertionIndex(events []Event, e Event) int {
	i, _ := slices.BinarySearchFunc(events, e, Compare)
	return i
}
