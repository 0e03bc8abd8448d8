package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/when"
)

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one counter in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open("show")
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}

			t := now()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", c.Name)
			fmt.Fprintf(out, "  %s, %s\n", c.Type, state(c))
			fmt.Fprintf(out, "  %s\n", display.Clock(display.Compute(c, t)))
			fmt.Fprintf(out, "  %s\n", summary(c, t))
			fmt.Fprintf(out, "  %s: %s\n", referenceLabel(c), when.Format(c.Reference(), t))
			fmt.Fprintf(out, "  ID: %s\n", c.ID)
			return nil
		},
	}
}
