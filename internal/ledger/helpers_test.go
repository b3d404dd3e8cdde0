package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c0")
)

func txHash(n byte) common.Hash {
	return common.BytesToHash([]byte{n})
}

func transfer(block uint64, logIndex uint, from, to common.Address, amount int64) Event {
	return Event{
		Kind:        KindTransfer,
		TxHash:      txHash(byte(block)),
		BlockNumber: block,
		LogIndex:    logIndex,
		Transfer:    &Transfer{From: from, To: to, Amount: big.NewInt(amount)},
	}
}

func approval(block uint64, logIndex uint, owner, spender common.Address, amount int64) Event {
	return Event{
		Kind:        KindApproval,
		TxHash:      txHash(byte(block)),
		BlockNumber: block,
		LogIndex:    logIndex,
		Approval:    &Approval{Owner: owner, Spender: spender, Amount: big.NewInt(amount)},
	}
}

func positions(events []Event) [][2]uint64 {
	out := make([][2]uint64, len(events))
	for i, e := range events {
		out[i] = [2]uint64{e.BlockNumber, uint64(e.LogIndex)}
	}
	return out
}
