package ethereum

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gabapcia/ledgerview/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/ledgerview/internal/pkg/types"
)

// blockHeader is the part of eth_getBlockByNumber the package reads.
type blockHeader struct {
	Number    types.Hex `json:"number"`
	Timestamp types.Hex `json:"timestamp"`
}

// CurrentHeight implements ledger.Ledger.
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	height, err := jsonrpc.Call[types.Hex](ctx, c.conn, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return height.Uint64(), nil
}

// NetworkID implements ledger.Ledger. The chain id is returned in decimal,
// e.g. "31337" for a Hardhat node.
func (c *Client) NetworkID(ctx context.Context) (string, error) {
	id, err := jsonrpc.Call[types.Hex](ctx, c.conn, "eth_chainId")
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(id.Uint64(), 10), nil
}

// BlockTimestamp implements ledger.Ledger.
func (c *Client) BlockTimestamp(ctx context.Context, block uint64) (int64, error) {
	header, err := jsonrpc.Call[blockHeader](ctx, c.conn, "eth_getBlockByNumber", types.HexFromUint64(block), false)
	if err != nil {
		return 0, err
	}
	if header.Timestamp.IsEmpty() {
		return 0, fmt.Errorf("block %d header has no timestamp", block)
	}
	return int64(header.Timestamp.Uint64()), nil
}
