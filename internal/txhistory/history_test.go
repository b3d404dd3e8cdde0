package txhistory

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabapcia/ledgerview/internal/ledger"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c0")
)

func transfer(block uint64, logIndex uint, from, to common.Address) ledger.Event {
	return ledger.Event{
		Kind:        ledger.KindTransfer,
		TxHash:      common.BytesToHash([]byte{byte(block), byte(logIndex)}),
		BlockNumber: block,
		LogIndex:    logIndex,
		Transfer:    &ledger.Transfer{From: from, To: to, Amount: big.NewInt(1)},
	}
}

func approval(block uint64, logIndex uint, owner, spender common.Address) ledger.Event {
	return ledger.Event{
		Kind:        ledger.KindApproval,
		TxHash:      common.BytesToHash([]byte{byte(block), byte(logIndex)}),
		BlockNumber: block,
		LogIndex:    logIndex,
		Approval:    &ledger.Approval{Owner: owner, Spender: spender, Amount: big.NewInt(1)},
	}
}

func keys(entries []Entry) []ledger.Key {
	out := make([]ledger.Key, len(entries))
	for i, e := range entries {
		out[i] = e.Key()
	}
	return out
}

func TestRoleOf(t *testing.T) {
	cases := []struct {
		name  string
		event ledger.Event
		role  Role
		ok    bool
	}{
		{"sent", transfer(1, 0, alice, bob), RoleSent, true},
		{"received", transfer(1, 0, bob, alice), RoleReceived, true},
		{"self transfer", transfer(1, 0, alice, alice), RoleSent, true},
		{"owner", approval(1, 0, alice, bob), RoleOwner, true},
		{"spender", approval(1, 0, bob, alice), RoleSpender, true},
		{"unrelated", transfer(1, 0, bob, carol), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, ok := RoleOf(alice, tc.event)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.role, role)
		})
	}
}

func TestBuild(t *testing.T) {
	h := Build(alice, []ledger.Event{
		transfer(3, 0, alice, bob),
		transfer(9, 1, bob, carol),
		approval(7, 2, bob, alice),
		transfer(3, 0, alice, bob),
	})

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(7), entries[0].BlockNumber)
	assert.Equal(t, RoleSpender, entries[0].Role)
	assert.Equal(t, RoleSent, entries[1].Role)
	assert.Equal(t, alice, h.Subject())
}

func TestHistory_Insert(t *testing.T) {
	t.Run("prepends recent events", func(t *testing.T) {
		h := Build(alice, []ledger.Event{transfer(3, 0, alice, bob)})

		assert.True(t, h.Insert(transfer(10, 0, bob, alice)))
		assert.Equal(t, uint64(10), h.Entries()[0].BlockNumber)
	})

	t.Run("re-notification yields one entry", func(t *testing.T) {
		e := transfer(10, 0, alice, bob)
		h := Build(alice, []ledger.Event{e})

		assert.False(t, h.Insert(e))
		assert.Equal(t, 1, h.Len())
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		h := New(alice)
		assert.False(t, h.Insert(transfer(1, 0, bob, carol)))
		assert.Zero(t, h.Len())
	})

	t.Run("matches a full build", func(t *testing.T) {
		events := []ledger.Event{
			transfer(5, 3, alice, bob),
			approval(5, 1, alice, carol),
			transfer(8, 0, bob, alice),
			transfer(1, 0, alice, carol),
			approval(8, 4, carol, alice),
		}

		live := New(alice)
		for _, e := range events {
			live.Insert(e)
		}

		assert.Equal(t, keys(Build(alice, events).Entries()), keys(live.Entries()))
	})
}

func TestHistory_PatchTimestamps(t *testing.T) {
	h := Build(alice, []ledger.Event{
		transfer(5, 1, alice, bob),
		transfer(5, 0, bob, alice),
		transfer(2, 0, alice, carol),
	})
	before := keys(h.Entries())

	assert.Equal(t, []uint64{2, 5}, h.Unresolved())

	assert.Equal(t, 2, h.PatchTimestamps(map[uint64]int64{5: 1000, 99: 1}))
	assert.Equal(t, before, keys(h.Entries()))
	assert.Equal(t, []uint64{2}, h.Unresolved())

	entries := h.Entries()
	require.NotNil(t, entries[0].Timestamp)
	assert.Equal(t, int64(1000), *entries[0].Timestamp)
	assert.Nil(t, entries[2].Timestamp)

	assert.Zero(t, h.PatchTimestamps(map[uint64]int64{5: 2000}), "resolved entries keep their time")
}
