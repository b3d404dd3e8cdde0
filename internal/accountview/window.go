package accountview

import "slices"

// DefaultWindowSize is how many blocks behind the head a backfill scans on
// public networks.
const DefaultWindowSize uint64 = 50_000

// DefaultLocalNetworks are the chain ids of Hardhat and Ganache style
// development nodes.
var DefaultLocalNetworks = []string{"31337", "1337"}

// WindowPolicy decides how far back a reload scans.
type WindowPolicy struct {
	Size          uint64
	LocalNetworks []string
}

// DefaultWindowPolicy returns the 50k block policy with genesis replay on
// local networks.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		Size:          DefaultWindowSize,
		LocalNetworks: slices.Clone(DefaultLocalNetworks),
	}
}

// Window is a backfill range. To is nil for the latest block.
type Window struct {
	From uint64
	To   *uint64
}

// SelectWindow returns the range a reload queries. Local networks replay from
// genesis; elsewhere the scan starts policy.Size blocks behind height, never
// below zero.
func SelectWindow(height uint64, networkID string, policy WindowPolicy) Window {
	if slices.Contains(policy.LocalNetworks, networkID) {
		return Window{From: 0}
	}
	if height <= policy.Size {
		return Window{From: 0}
	}
	return Window{From: height - policy.Size}
}
