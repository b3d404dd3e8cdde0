package main

import (
	"context"
	"slices"

	"github.com/gabapcia/ledgerview/internal/accountview"
	"github.com/gabapcia/ledgerview/internal/handlers/cli"
	"github.com/gabapcia/ledgerview/internal/ledger"
)

// opener starts accountview sessions over one shared ledger connection.
type opener struct {
	ledger ledger.Ledger
	opts   []accountview.Option
}

func newOpener(l ledger.Ledger, opts ...accountview.Option) *opener {
	return &opener{ledger: l, opts: opts}
}

func (o *opener) Open(_ context.Context, listener func(accountview.Update)) (cli.View, error) {
	opts := o.opts
	if listener != nil {
		opts = append(slices.Clone(opts), accountview.WithListener(listener))
	}
	return accountview.New(o.ledger, opts...), nil
}

var _ cli.SessionOpener = (*opener)(nil)
