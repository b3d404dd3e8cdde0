package accountview

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/txhistory"
)

// UpdateKind tells a listener which part of the view changed.
type UpdateKind int

const (
	// UpdateHistoryReloaded follows a successful reload; the history was
	// replaced as a whole.
	UpdateHistoryReloaded UpdateKind = iota + 1

	// UpdateReloadFailed follows a reload that could not reach the ledger. The
	// previous view is kept and Update.Err is set.
	UpdateReloadFailed

	// UpdateHistoryPrepended follows a new live event; Update.Event is set.
	UpdateHistoryPrepended

	// UpdateTimestampsPatched follows the resolution of block times.
	UpdateTimestampsPatched

	// UpdateAllowancesChanged follows a projection; Update.Perspective is set.
	UpdateAllowancesChanged
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateHistoryReloaded:
		return "history_reloaded"
	case UpdateReloadFailed:
		return "reload_failed"
	case UpdateHistoryPrepended:
		return "history_prepended"
	case UpdateTimestampsPatched:
		return "timestamps_patched"
	case UpdateAllowancesChanged:
		return "allowances_changed"
	default:
		return "unknown"
	}
}

// Update is delivered to the listener after the session state changed. The
// new state is read with Session.History and Session.Allowances.
type Update struct {
	Kind        UpdateKind
	Subject     common.Address
	Perspective allowance.Perspective
	Event       *ledger.Event
	Err         error
}

// HistorySnapshot is a copy of the history view.
type HistorySnapshot struct {
	Subject  common.Address
	Tracking bool
	Entries  []txhistory.Entry

	// Loading is set while a reload is in flight.
	Loading bool

	// Err is the failure of the last reload, wrapped in
	// ErrCollaboratorUnavailable. Entries then hold the previous view.
	Err error
}

// AllowanceSnapshot is a copy of one allowance table.
type AllowanceSnapshot struct {
	Subject     common.Address
	Perspective allowance.Perspective
	Records     []allowance.Record
	Failures    []allowance.Failure

	// Loading is set while a projection is pending.
	Loading bool
	Err     error
}
