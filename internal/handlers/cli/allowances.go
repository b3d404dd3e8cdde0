package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gabapcia/ledgerview/internal/pkg/validator"
)

// allowancesCommand returns a CLI command that prints the outstanding
// allowances of an address as grantor, grantee or both.
//
// Usage example:
//
//	ledgerview allowances --address 0xABC123... --as grantee
func allowancesCommand(opener SessionOpener, r renderer) *cli.Command {
	return &cli.Command{
		Name:        "allowances",
		Description: "Print the non-zero allowances an address granted or received.",
		Usage:       "Projects the latest Approval per counterparty and prints one JSON line per allowance.",
		Flags: []cli.Flag{
			addressFlag(),
			&cli.StringFlag{
				Name:  "as",
				Usage: "Perspective: grantor, grantee or both",
				Value: "both",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			as := c.String("as")
			if err := validator.Var("as", as, "oneof=grantor grantee both"); err != nil {
				return err
			}

			view, err := track(ctx, c, opener, nil)
			if err != nil {
				return err
			}

			if err := view.Wait(ctx); err != nil {
				return closeWith(ctx, view, err)
			}

			var lines []allowanceLine
			for _, p := range perspectivesOf(as) {
				snap := view.Allowances(p)
				if snap.Err != nil {
					return closeWith(ctx, view, snap.Err)
				}
				lines = append(lines, r.allowances(snap)...)
			}

			return closeWith(ctx, view, writeLines(c.Root().Writer, lines...))
		},
	}
}
