package redis

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/gabapcia/ledgerview/internal/txhistory"
)

// blocktimeKeyPrefix is the namespace of the block timestamp hashes.
const blocktimeKeyPrefix = "ledgerview:blocktime"

// blocktimeKey builds the hash holding the block times of one network:
//
//	"ledgerview:blocktime:<network>"
//
// Fields are decimal block numbers, values decimal unix seconds.
func blocktimeKey(network string) string {
	return fmt.Sprintf("%s:%s", blocktimeKeyPrefix, network)
}

// GetTimestamps returns the cached block times among blocks. Missing or
// unreadable fields are left out of the result.
func (c *client) GetTimestamps(ctx context.Context, network string, blocks []uint64) (map[uint64]int64, error) {
	found := make(map[uint64]int64, len(blocks))
	if len(blocks) == 0 {
		return found, nil
	}

	fields := make([]string, len(blocks))
	for i, block := range blocks {
		fields[i] = strconv.FormatUint(block, 10)
	}

	vals, err := c.conn.HMGet(ctx, blocktimeKey(network), fields...).Result()
	if err != nil {
		return nil, err
	}

	for i, val := range vals {
		s, ok := val.(string)
		if !ok {
			continue
		}

		ts, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		found[blocks[i]] = ts
	}

	return found, nil
}

// SetTimestamps stores values in the network hash. Block times never change,
// so the hash has no expiration.
func (c *client) SetTimestamps(ctx context.Context, network string, values map[uint64]int64) error {
	if len(values) == 0 {
		return nil
	}

	pairs := make([]any, 0, 2*len(values))
	for _, block := range slices.Sorted(maps.Keys(values)) {
		pairs = append(pairs, strconv.FormatUint(block, 10), strconv.FormatInt(values[block], 10))
	}

	return c.conn.HSet(ctx, blocktimeKey(network), pairs...).Err()
}

// Ensure the client satisfies the TimestampCache interface at compile time.
var _ txhistory.TimestampCache = new(client)
