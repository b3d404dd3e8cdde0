package ethereum

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_Allowance(t *testing.T) {
	t.Run("packs call and unpacks result", func(t *testing.T) {
		c, _, eth := newTestClient(t)

		want, err := allowanceABI.Pack("allowance", owner, spender)
		require.NoError(t, err)
		result, err := allowanceABI.Methods["allowance"].Outputs.Pack(big.NewInt(42))
		require.NoError(t, err)

		eth.EXPECT().CallContract(mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
			return msg.To != nil && *msg.To == token && bytes.Equal(msg.Data, want)
		}), (*big.Int)(nil)).Return(result, nil)

		got, err := c.Allowance(t.Context(), owner, spender)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.Int64())
	})

	t.Run("reverted call", func(t *testing.T) {
		c, _, eth := newTestClient(t)
		eth.EXPECT().CallContract(mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("execution reverted"))

		_, err := c.Allowance(t.Context(), owner, spender)
		assert.Error(t, err)
	})

	t.Run("short result", func(t *testing.T) {
		c, _, eth := newTestClient(t)
		eth.EXPECT().CallContract(mock.Anything, mock.Anything, mock.Anything).Return([]byte{1, 2}, nil)

		_, err := c.Allowance(t.Context(), owner, spender)
		assert.Error(t, err)
	})
}
