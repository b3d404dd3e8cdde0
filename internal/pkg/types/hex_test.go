package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	t.Run("round trips uint64", func(t *testing.T) {
		h := HexFromUint64(31337)
		assert.Equal(t, Hex("0x7a69"), h)
		assert.Equal(t, uint64(31337), h.Uint64())
	})

	t.Run("zero encodes without padding", func(t *testing.T) {
		assert.Equal(t, Hex("0x0"), HexFromUint64(0))
	})

	t.Run("invalid value decodes to zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), Hex("0xZZ").Uint64())
		assert.Equal(t, uint64(0), Hex("7a69").Uint64(), "missing prefix")
		assert.True(t, Hex("").IsEmpty())
	})

	t.Run("unmarshal validates", func(t *testing.T) {
		var h Hex
		require.NoError(t, json.Unmarshal([]byte(`"0x10"`), &h))
		assert.Equal(t, uint64(16), h.Uint64())

		assert.Error(t, json.Unmarshal([]byte(`"10"`), &h))
		assert.Error(t, json.Unmarshal([]byte(`16`), &h))
	})
}
