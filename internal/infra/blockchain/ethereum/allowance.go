package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20AllowanceABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var allowanceABI = mustParseABI(erc20AllowanceABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Allowance implements ledger.Ledger with a call to allowance(owner, spender)
// at the latest block.
func (c *Client) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	data, err := allowanceABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("pack allowance call: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call allowance: %w", err)
	}

	values, err := allowanceABI.Unpack("allowance", result)
	if err != nil {
		return nil, fmt.Errorf("unpack allowance result: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unpack allowance result: got %d values", len(values))
	}

	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack allowance result: got %T", values[0])
	}
	return amount, nil
}
