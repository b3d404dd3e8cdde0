package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hex is a "0x"-prefixed hexadecimal quantity as used by Ethereum JSON-RPC
// (block numbers, chain ids, timestamps).
type Hex string

// HexFromUint64 encodes n as a quantity without leading zeros.
func HexFromUint64(n uint64) Hex {
	return Hex("0x" + strconv.FormatUint(n, 16))
}

func parseHex(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, fmt.Errorf("hex string must start with 0x: %q", s)
	}

	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hexadecimal value %q: %w", s, err)
	}

	return v, nil
}

// MarshalJSON encodes h as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON decodes and validates a JSON string quantity.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	if _, err := parseHex(s); err != nil {
		return err
	}

	*h = Hex(s)
	return nil
}

// Uint64 decodes h. Invalid values decode to zero.
func (h Hex) Uint64() uint64 {
	v, _ := parseHex(string(h))
	return v
}

// IsEmpty reports whether h holds no value.
func (h Hex) IsEmpty() bool {
	return h == ""
}
