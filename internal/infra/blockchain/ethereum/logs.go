package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/gabapcia/ledgerview/internal/ledger"
)

var (
	transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	approvalEventSignature = crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))
)

// signatureOf maps a kind to the topic0 of its event.
func signatureOf(kind ledger.Kind) (common.Hash, bool) {
	switch kind {
	case ledger.KindTransfer:
		return transferEventSignature, true
	case ledger.KindApproval:
		return approvalEventSignature, true
	default:
		return common.Hash{}, false
	}
}

func addressTopic(addr *common.Address) []common.Hash {
	if addr == nil {
		return nil
	}
	return []common.Hash{common.BytesToHash(addr.Bytes())}
}

// filterQuery builds the log filter for kinds restricted by filter. Both
// indexed address positions are optional.
func (c *Client) filterQuery(kinds []ledger.Kind, filter ledger.Filter, from uint64, to *uint64) ethereum.FilterQuery {
	signatures := make([]common.Hash, 0, len(kinds))
	for _, kind := range kinds {
		if sig, ok := signatureOf(kind); ok {
			signatures = append(signatures, sig)
		}
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		Addresses: []common.Address{c.token},
		Topics: [][]common.Hash{
			signatures,
			addressTopic(filter.First),
			addressTopic(filter.Second),
		},
	}
	if to != nil {
		query.ToBlock = new(big.Int).SetUint64(*to)
	}

	// Trailing wildcard positions are implied.
	for len(query.Topics) > 1 && query.Topics[len(query.Topics)-1] == nil {
		query.Topics = query.Topics[:len(query.Topics)-1]
	}

	return query
}

// decodeLog maps a raw EVM log to a ledger.RawLog. Logs of other events, or
// Transfer logs of ERC-721 shape, come out with a name or arity the
// normalizer rejects.
func decodeLog(log types.Log) ledger.RawLog {
	raw := ledger.RawLog{
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
		TxHash:      log.TxHash,
	}

	if len(log.Topics) == 0 {
		return raw
	}

	switch log.Topics[0] {
	case transferEventSignature:
		raw.EventName = string(ledger.KindTransfer)
	case approvalEventSignature:
		raw.EventName = string(ledger.KindApproval)
	default:
		raw.EventName = log.Topics[0].Hex()
		return raw
	}

	for _, topic := range log.Topics[1:] {
		raw.Args = append(raw.Args, common.BytesToAddress(topic.Bytes()))
	}
	if len(log.Data) == common.HashLength {
		raw.Args = append(raw.Args, new(big.Int).SetBytes(log.Data))
	}

	return raw
}

// QueryEvents implements ledger.Ledger. Removed logs are skipped.
func (c *Client) QueryEvents(ctx context.Context, kind ledger.Kind, filter ledger.Filter, from uint64, to *uint64) ([]ledger.RawLog, error) {
	if _, ok := signatureOf(kind); !ok {
		return nil, ledger.ErrUnknownEventKind
	}

	logs, err := c.eth.FilterLogs(ctx, c.filterQuery([]ledger.Kind{kind}, filter, from, to))
	if err != nil {
		return nil, err
	}

	raws := make([]ledger.RawLog, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		raws = append(raws, decodeLog(log))
	}
	return raws, nil
}
