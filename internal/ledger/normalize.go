package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnknownEventKind is returned for logs whose name is not a known Kind.
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrMalformedEvent is returned when the argument tuple does not match the
	// shape of the event.
	ErrMalformedEvent = errors.New("malformed event")
)

// Normalize turns a raw log into an Event. Amounts are copied.
func Normalize(raw RawLog) (Event, error) {
	kind := Kind(raw.EventName)
	if !kind.Valid() {
		return Event{}, fmt.Errorf("%w: %q at %s", ErrUnknownEventKind, raw.EventName, raw.key())
	}

	if len(raw.Args) != 3 {
		return Event{}, fmt.Errorf("%w: %s at %s has %d arguments, want 3", ErrMalformedEvent, kind, raw.key(), len(raw.Args))
	}

	first, err := asAddress(raw.Args[0])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s at %s argument 0: %w", ErrMalformedEvent, kind, raw.key(), err)
	}

	second, err := asAddress(raw.Args[1])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s at %s argument 1: %w", ErrMalformedEvent, kind, raw.key(), err)
	}

	amount, err := asAmount(raw.Args[2])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s at %s argument 2: %w", ErrMalformedEvent, kind, raw.key(), err)
	}

	event := Event{
		Kind:        kind,
		TxHash:      raw.TxHash,
		BlockNumber: raw.BlockNumber,
		LogIndex:    raw.LogIndex,
	}

	switch kind {
	case KindTransfer:
		event.Transfer = &Transfer{From: first, To: second, Amount: amount}
	case KindApproval:
		event.Approval = &Approval{Owner: first, Spender: second, Amount: amount}
	}

	return event, nil
}

// NormalizeAll normalizes every log. Rejected logs do not stop the batch; their
// errors are joined and returned next to the accepted events.
func NormalizeAll(raws []RawLog) ([]Event, error) {
	var (
		events = make([]Event, 0, len(raws))
		errs   []error
	)

	for _, raw := range raws {
		event, err := Normalize(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, event)
	}

	return events, errors.Join(errs...)
}

func (r RawLog) key() Key {
	return Key{TxHash: r.TxHash, LogIndex: r.LogIndex}
}

func asAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case *common.Address:
		if a == nil {
			return common.Address{}, errors.New("nil address")
		}
		return *a, nil
	default:
		return common.Address{}, fmt.Errorf("got %T, want address", v)
	}
}

func asAmount(v any) (*big.Int, error) {
	var n *big.Int
	switch a := v.(type) {
	case *big.Int:
		n = a
	case big.Int:
		n = &a
	default:
		return nil, fmt.Errorf("got %T, want integer", v)
	}

	if n == nil {
		return nil, errors.New("nil amount")
	}
	if n.Sign() < 0 {
		return nil, errors.New("negative amount")
	}

	return new(big.Int).Set(n), nil
}
