package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/when"
)

var errNeedsTarget = errors.New("a countdown needs a target date (--at)")

func addCmd(opts *options) *cobra.Command {
	var at string
	var countdown bool

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a counter",
		Example: `  daysince add "Last cigarette" --at "2 weeks ago"
  daysince add Vacation --countdown --at 2025-07-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := now()
			params := store.AddParams{
				Name: strings.Join(args, " "),
				Type: model.TypeCountup,
			}
			if countdown {
				params.Type = model.TypeCountdown
			}

			target, err := parseAt(at, t)
			if err != nil {
				return err
			}
			if countdown && target == nil {
				return errNeedsTarget
			}
			params.CreatedAt = target

			a, err := opts.open("add")
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Add(params)
			if err != nil {
				return err
			}
			if err := a.Store.SaveErr(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added: %s (%s)\n", c.Name, shortID(c.ID))
			fmt.Fprintf(out, "%s: %s\n", referenceLabel(c), when.Format(c.Reference(), t))
			if c.Completed {
				fmt.Fprintln(out, "Already reached")
			} else {
				fmt.Fprintln(out, summary(c, t))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "start or target (now, yesterday, friday, 2h ago, in 3d, 2024-01-15 18:30)")
	cmd.Flags().BoolVar(&countdown, "countdown", false, "count down to --at instead of up from it")
	return cmd
}

// parseAt reads a --at value relative to t
func parseAt(s string, t time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	at, err := when.Parse(s, t)
	if err != nil {
		return nil, err
	}
	return &at, nil
}
