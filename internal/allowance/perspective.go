// Package allowance projects the Approval events of a subject into the table of
// allowances currently in force, seen either from the grantor or the grantee
// side.
package allowance

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/ledgerview/internal/ledger"
)

// Party names one side of an Approval.
type Party int

const (
	PartyOwner Party = iota
	PartySpender
)

func (p Party) of(a *ledger.Approval) common.Address {
	if p == PartyOwner {
		return a.Owner
	}
	return a.Spender
}

// Perspective selects which Approval field must equal the subject and which
// one keys the resulting rows.
type Perspective struct {
	Subject      Party
	Counterparty Party
}

var (
	// AsGrantor lists the spenders the subject approved.
	AsGrantor = Perspective{Subject: PartyOwner, Counterparty: PartySpender}

	// AsGrantee lists the owners that approved the subject.
	AsGrantee = Perspective{Subject: PartySpender, Counterparty: PartyOwner}
)

// Perspectives lists both tables a session maintains.
var Perspectives = []Perspective{AsGrantor, AsGrantee}

func (p Perspective) String() string {
	if p == AsGrantee {
		return "grantee"
	}
	return "grantor"
}

// Touches reports whether e is an Approval this perspective projects for
// subject.
func (p Perspective) Touches(subject common.Address, e ledger.Event) bool {
	return e.Approval != nil && p.Subject.of(e.Approval) == subject
}

// counterparty returns the row key of an approval.
func (p Perspective) counterparty(a *ledger.Approval) common.Address {
	return p.Counterparty.of(a)
}

// pair returns (owner, spender) for a row of subject with counterparty.
func (p Perspective) pair(subject, counterparty common.Address) (common.Address, common.Address) {
	if p.Subject == PartyOwner {
		return subject, counterparty
	}
	return counterparty, subject
}
