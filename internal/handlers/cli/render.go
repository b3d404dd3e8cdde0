package cli

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/gabapcia/ledgerview/internal/accountview"
	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/txhistory"
)

type entryLine struct {
	Kind      string `json:"kind"`
	Role      string `json:"role,omitempty"`
	Block     uint64 `json:"block"`
	LogIndex  uint   `json:"log_index"`
	TxHash    string `json:"tx_hash"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Spender   string `json:"spender,omitempty"`
	Amount    string `json:"amount"`
	Timestamp *int64 `json:"timestamp"`
}

type allowanceLine struct {
	Perspective  string `json:"perspective"`
	Counterparty string `json:"counterparty"`
	Amount       string `json:"amount,omitempty"`
	Approved     string `json:"approved,omitempty"`
	Block        uint64 `json:"block,omitempty"`
	TxHash       string `json:"tx_hash,omitempty"`
	Error        string `json:"error,omitempty"`
}

type updateLine struct {
	Update      string          `json:"update"`
	Subject     string          `json:"subject"`
	Perspective string          `json:"perspective,omitempty"`
	Event       *entryLine      `json:"event,omitempty"`
	Entries     *int            `json:"entries,omitempty"`
	Allowances  []allowanceLine `json:"allowances,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type renderer struct {
	decimals int32
}

// amount renders a base unit integer with r.decimals fractional digits,
// e.g. 1500000000000000000 as "1.5" for 18 decimals.
func (r renderer) amount(v *big.Int) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromBigInt(v, -r.decimals).String()
}

func (r renderer) event(e ledger.Event, role txhistory.Role) entryLine {
	line := entryLine{
		Kind:      string(e.Kind),
		Role:      string(role),
		Block:     e.BlockNumber,
		LogIndex:  e.LogIndex,
		TxHash:    e.TxHash.Hex(),
		Amount:    r.amount(e.Amount()),
		Timestamp: e.Timestamp,
	}

	switch {
	case e.Transfer != nil:
		line.From = e.Transfer.From.Hex()
		line.To = e.Transfer.To.Hex()
	case e.Approval != nil:
		line.Owner = e.Approval.Owner.Hex()
		line.Spender = e.Approval.Spender.Hex()
	}

	return line
}

func (r renderer) allowances(snap accountview.AllowanceSnapshot) []allowanceLine {
	p := snap.Perspective.String()

	lines := make([]allowanceLine, 0, len(snap.Records)+len(snap.Failures))
	for _, rec := range snap.Records {
		lines = append(lines, allowanceLine{
			Perspective:  p,
			Counterparty: rec.Counterparty.Hex(),
			Amount:       r.amount(rec.Amount),
			Approved:     r.amount(rec.Approved),
			Block:        rec.BlockNumber,
			TxHash:       rec.TxHash.Hex(),
		})
	}
	for _, f := range snap.Failures {
		lines = append(lines, allowanceLine{
			Perspective:  p,
			Counterparty: f.Counterparty.Hex(),
			Error:        f.Err.Error(),
		})
	}

	return lines
}

func (r renderer) update(u accountview.Update, view View) updateLine {
	line := updateLine{
		Update:  u.Kind.String(),
		Subject: u.Subject.Hex(),
	}
	if u.Err != nil {
		line.Error = u.Err.Error()
	}

	switch u.Kind {
	case accountview.UpdateHistoryReloaded, accountview.UpdateTimestampsPatched:
		n := len(view.History().Entries)
		line.Entries = &n
	case accountview.UpdateHistoryPrepended:
		if u.Event != nil {
			role, _ := txhistory.RoleOf(u.Subject, *u.Event)
			ev := r.event(*u.Event, role)
			line.Event = &ev
		}
	case accountview.UpdateAllowancesChanged:
		line.Perspective = u.Perspective.String()
		line.Allowances = r.allowances(view.Allowances(u.Perspective))
	}

	return line
}

func writeLines[T any](w io.Writer, lines ...T) error {
	enc := json.NewEncoder(w)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

// perspectivesOf maps the --as flag to the tables to print.
func perspectivesOf(as string) []allowance.Perspective {
	switch as {
	case allowance.AsGrantor.String():
		return []allowance.Perspective{allowance.AsGrantor}
	case allowance.AsGrantee.String():
		return []allowance.Perspective{allowance.AsGrantee}
	default:
		return allowance.Perspectives
	}
}
