package ledger

import (
	"errors"
	"fmt"
	"slices"
)

// ErrIdentityKeyConflict is returned when an insert reuses a known key with
// different contents.
var ErrIdentityKeyConflict = errors.New("identity key conflict")

// EventSet is the merged, deduplicated set of events of one session. It keeps
// its events ordered with Compare. The zero value is not usable; call
// NewEventSet. EventSet is not safe for concurrent use.
type EventSet struct {
	byKey   map[Key]Event
	ordered []Event
}

// NewEventSet returns an empty set.
func NewEventSet() *EventSet {
	return &EventSet{byKey: make(map[Key]Event)}
}

// Insert adds e. It returns true when the key was not present. An identical
// event under a known key is a no-op; a differing one leaves the set unchanged
// and returns ErrIdentityKeyConflict.
func (s *EventSet) Insert(e Event) (bool, error) {
	key := e.Key()
	if existing, ok := s.byKey[key]; ok {
		if existing.Equal(e) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s", ErrIdentityKeyConflict, key)
	}

	e = e.Clone()
	s.byKey[key] = e
	s.ordered = slices.Insert(s.ordered, InsertionIndex(s.ordered, e), e)
	return true, nil
}

// InsertAll inserts every event and returns how many were new. Conflicts are
// skipped and joined into the returned error.
func (s *EventSet) InsertAll(events []Event) (int, error) {
	var (
		added int
		errs  []error
	)
	for _, e := range events {
		ok, err := s.Insert(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			added++
		}
	}
	return added, errors.Join(errs...)
}

// Get returns a copy of the event stored under key.
func (s *EventSet) Get(key Key) (Event, bool) {
	e, ok := s.byKey[key]
	if !ok {
		return Event{}, false
	}
	return e.Clone(), true
}

// Has reports whether key is present.
func (s *EventSet) Has(key Key) bool {
	_, ok := s.byKey[key]
	return ok
}

func (s *EventSet) Len() int {
	return len(s.ordered)
}

// Events returns a copy of every event, most recent first.
func (s *EventSet) Events() []Event {
	return s.Filter(func(Event) bool { return true })
}

// Approvals returns the Approval events, most recent first.
func (s *EventSet) Approvals() []Event {
	return s.Filter(func(e Event) bool { return e.Kind == KindApproval })
}

// Filter returns copies of the events keep accepts, most recent first.
func (s *EventSet) Filter(keep func(Event) bool) []Event {
	out := make([]Event, 0, len(s.ordered))
	for _, e := range s.ordered {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// SetTimestamp attaches ts to every stored event of block. It returns how many
// events changed.
func (s *EventSet) SetTimestamp(block uint64, ts int64) int {
	var n int
	for i := range s.ordered {
		e := &s.ordered[i]
		if e.BlockNumber != block || (e.Timestamp != nil && *e.Timestamp == ts) {
			continue
		}
		v := ts
		e.Timestamp = &v
		s.byKey[e.Key()] = *e
		n++
	}
	return n
}
