package ethereum

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gabapcia/ledgerview/internal/ledger"
)

var (
	owner   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	spender = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func amountData(v int64) []byte {
	return common.BigToHash(big.NewInt(v)).Bytes()
}

func erc20Log(sig common.Hash, block uint64, index uint, a, b common.Address, amount int64) types.Log {
	return types.Log{
		Address:     token,
		Topics:      []common.Hash{sig, common.BytesToHash(a.Bytes()), common.BytesToHash(b.Bytes())},
		Data:        amountData(amount),
		BlockNumber: block,
		TxHash:      common.BytesToHash([]byte{byte(block), byte(index)}),
		Index:       index,
	}
}

func TestDecodeLog(t *testing.T) {
	t.Run("transfer", func(t *testing.T) {
		raw := decodeLog(erc20Log(transferEventSignature, 10, 2, owner, spender, 100))

		event, err := ledger.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, ledger.KindTransfer, event.Kind)
		assert.Equal(t, owner, event.Transfer.From)
		assert.Equal(t, spender, event.Transfer.To)
		assert.Equal(t, int64(100), event.Transfer.Amount.Int64())
		assert.Equal(t, uint64(10), event.BlockNumber)
		assert.Equal(t, uint(2), event.LogIndex)
	})

	t.Run("approval", func(t *testing.T) {
		event, err := ledger.Normalize(decodeLog(erc20Log(approvalEventSignature, 1, 0, owner, spender, 7)))
		require.NoError(t, err)
		assert.Equal(t, owner, event.Approval.Owner)
		assert.Equal(t, spender, event.Approval.Spender)
	})

	t.Run("erc721 transfer is malformed", func(t *testing.T) {
		log := erc20Log(transferEventSignature, 1, 0, owner, spender, 0)
		log.Topics = append(log.Topics, common.BigToHash(big.NewInt(1)))
		log.Data = nil

		_, err := ledger.Normalize(decodeLog(log))
		assert.ErrorIs(t, err, ledger.ErrMalformedEvent)
	})

	t.Run("other event is unknown", func(t *testing.T) {
		log := erc20Log(common.HexToHash("0xdead"), 1, 0, owner, spender, 0)

		_, err := ledger.Normalize(decodeLog(log))
		assert.ErrorIs(t, err, ledger.ErrUnknownEventKind)
	})

	t.Run("anonymous log", func(t *testing.T) {
		_, err := ledger.Normalize(decodeLog(types.Log{}))
		assert.ErrorIs(t, err, ledger.ErrUnknownEventKind)
	})
}

func TestClient_filterQuery(t *testing.T) {
	c, _, _ := newTestClient(t)

	t.Run("owner only", func(t *testing.T) {
		q := c.filterQuery([]ledger.Kind{ledger.KindApproval}, ledger.Filter{First: &owner}, 5, nil)
		assert.Equal(t, []common.Address{token}, q.Addresses)
		assert.Equal(t, big.NewInt(5), q.FromBlock)
		assert.Nil(t, q.ToBlock)
		assert.Equal(t, [][]common.Hash{{approvalEventSignature}, {common.BytesToHash(owner.Bytes())}}, q.Topics)
	})

	t.Run("recipient only", func(t *testing.T) {
		to := uint64(9)
		q := c.filterQuery([]ledger.Kind{ledger.KindTransfer}, ledger.Filter{Second: &spender}, 0, &to)
		assert.Equal(t, big.NewInt(9), q.ToBlock)
		assert.Equal(t, [][]common.Hash{{transferEventSignature}, nil, {common.BytesToHash(spender.Bytes())}}, q.Topics)
	})

	t.Run("all kinds unfiltered", func(t *testing.T) {
		q := c.filterQuery(ledger.Kinds, ledger.Filter{}, 0, nil)
		assert.Equal(t, [][]common.Hash{{transferEventSignature, approvalEventSignature}}, q.Topics)
	})
}

func TestClient_QueryEvents(t *testing.T) {
	t.Run("decodes and skips removed logs", func(t *testing.T) {
		c, _, eth := newTestClient(t)

		removed := erc20Log(transferEventSignature, 4, 0, owner, spender, 1)
		removed.Removed = true

		eth.EXPECT().FilterLogs(mock.Anything, mock.MatchedBy(func(q ethereum.FilterQuery) bool {
			return q.FromBlock.Uint64() == 3 && len(q.Topics) == 2
		})).Return([]types.Log{
			erc20Log(transferEventSignature, 3, 1, owner, spender, 5),
			removed,
		}, nil)

		raws, err := c.QueryEvents(t.Context(), ledger.KindTransfer, ledger.Filter{First: &owner}, 3, nil)
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "Transfer", raws[0].EventName)
		assert.Equal(t, uint64(3), raws[0].BlockNumber)
	})

	t.Run("node error", func(t *testing.T) {
		c, _, eth := newTestClient(t)
		eth.EXPECT().FilterLogs(mock.Anything, mock.Anything).Return(nil, errors.New("query returned more than 10000 results"))

		_, err := c.QueryEvents(t.Context(), ledger.KindApproval, ledger.Filter{}, 0, nil)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		c, _, _ := newTestClient(t)
		_, err := c.QueryEvents(t.Context(), ledger.Kind("Mint"), ledger.Filter{}, 0, nil)
		assert.ErrorIs(t, err, ledger.ErrUnknownEventKind)
	})
}
