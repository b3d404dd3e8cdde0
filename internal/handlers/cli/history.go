package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

// historyCommand returns a CLI command that prints the history of an address,
// newest first, once the backfill and timestamp resolution are done.
//
// Usage example:
//
//	ledgerview history --address 0xABC123...
func historyCommand(opener SessionOpener, r renderer) *cli.Command {
	return &cli.Command{
		Name:        "history",
		Description: "Print the Transfer and Approval events involving an address, newest first.",
		Usage:       "Backfills the address history and prints one JSON line per event.",
		Flags:       []cli.Flag{addressFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			view, err := track(ctx, c, opener, nil)
			if err != nil {
				return err
			}

			if err := view.Wait(ctx); err != nil {
				return closeWith(ctx, view, err)
			}

			snap := view.History()
			if snap.Err != nil {
				return closeWith(ctx, view, snap.Err)
			}

			lines := make([]entryLine, len(snap.Entries))
			for i, entry := range snap.Entries {
				lines[i] = r.event(entry.Event, entry.Role)
			}

			return closeWith(ctx, view, writeLines(c.Root().Writer, lines...))
		},
	}
}
