package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/gabapcia/ledgerview/internal/accountview"
	"github.com/gabapcia/ledgerview/internal/pkg/logger"
)

// closeTimeout bounds the wait for in-flight work when watch stops.
const closeTimeout = 5 * time.Second

// watchCommand returns a CLI command that tracks an address live and prints
// one JSON line per view change.
//
// Usage example:
//
//	ledgerview watch --address 0xABC123...
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM).
func watchCommand(opener SessionOpener, r renderer) *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "Follow an address and print history and allowance changes as they happen.",
		Usage:       "Tracks the address until Ctrl+C or a termination signal.",
		Flags:       []cli.Flag{addressFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			subject, err := subjectOf(c)
			if err != nil {
				return err
			}

			out := c.Root().Writer
			views := make(chan View, 1)
			listener := func(u accountview.Update) {
				view := <-views
				views <- view

				if err := writeLines(out, r.update(u, view)); err != nil {
					logger.Warn(ctx, "could not write update", "update", u.Kind.String(), "error", err)
				}
			}

			view, err := opener.Open(ctx, listener)
			if err != nil {
				return err
			}
			views <- view

			if err := view.Track(ctx, subject); err != nil {
				return closeWith(ctx, view, err)
			}

			logger.Info(ctx, "watching address", "address", subject.Hex())
			<-ctx.Done()

			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
			defer cancel()

			return view.Close(closeCtx)
		},
	}
}
