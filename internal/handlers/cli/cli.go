package cli

import (
	"context"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v3"

	"github.com/gabapcia/ledgerview/internal/accountview"
	"github.com/gabapcia/ledgerview/internal/allowance"
	"github.com/gabapcia/ledgerview/internal/pkg/validator"
)

// View is the part of accountview.Session the commands use.
type View interface {
	Track(ctx context.Context, subject common.Address) error
	Wait(ctx context.Context) error
	History() accountview.HistorySnapshot
	Allowances(p allowance.Perspective) accountview.AllowanceSnapshot
	Close(ctx context.Context) error
}

// SessionOpener creates a View bound to the configured token. listener may be
// nil.
type SessionOpener interface {
	Open(ctx context.Context, listener func(accountview.Update)) (View, error)
}

// Run initializes and executes the ledgerview CLI application.
//
// It registers all available commands:
//
//   - `history`: Prints the transfer and approval history of an address.
//   - `allowances`: Prints the outstanding allowances of an address.
//   - `watch`: Follows an address and prints every view change.
//
// Output is one JSON document per line on stdout. Amounts are rendered with
// decimals fractional digits.
func Run(ctx context.Context, opener SessionOpener, decimals int32) error {
	return newApp(opener, os.Stdout, decimals).Run(ctx, os.Args)
}

func newApp(opener SessionOpener, out io.Writer, decimals int32) *cli.Command {
	r := renderer{decimals: decimals}

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "ledgerview",
		Description:           "Reconstructs ERC-20 allowances and transfer history of an address from contract events.",
		Usage:                 "ledgerview [command] [flags]",
		Writer:                out,
		Commands: []*cli.Command{
			historyCommand(opener, r),
			allowancesCommand(opener, r),
			watchCommand(opener, r),
		},
	}
}

func addressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "address",
		Usage:    "Account to inspect (0x-prefixed, 20 bytes)",
		Required: true,
	}
}

// subjectOf reads and validates the --address flag.
func subjectOf(c *cli.Command) (common.Address, error) {
	address := c.String("address")
	if err := validator.Var("address", address, "required,eth_addr"); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(address), nil
}

// track opens a session on the --address subject and waits for its first
// reload and the work it scheduled.
func track(ctx context.Context, c *cli.Command, opener SessionOpener, listener func(accountview.Update)) (View, error) {
	subject, err := subjectOf(c)
	if err != nil {
		return nil, err
	}

	view, err := opener.Open(ctx, listener)
	if err != nil {
		return nil, err
	}

	if err := view.Track(ctx, subject); err != nil {
		return nil, closeWith(ctx, view, err)
	}

	return view, nil
}

func closeWith(ctx context.Context, view View, err error) error {
	if cerr := view.Close(ctx); cerr != nil && err == nil {
		return cerr
	}
	return err
}
