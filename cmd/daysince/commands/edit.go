package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/when"
)

var errNothingToChange = errors.New("nothing to change: pass --name and/or --at")

func editCmd(opts *options) *cobra.Command {
	var name, at string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a running countup or move its start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameSet := cmd.Flags().Changed("name")
			if !nameSet && at == "" {
				return errNothingToChange
			}

			t := now()
			var params store.EditParams
			if nameSet {
				params.Name = &name
			}
			target, err := parseAt(at, t)
			if err != nil {
				return err
			}
			params.CreatedAt = target

			a, err := opts.open("edit")
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.Store.Edit(c.ID, params); err != nil {
				return err
			}
			if err := a.Store.SaveErr(); err != nil {
				return err
			}

			c, _ = a.Store.Get(c.ID)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated: %s\n", c.Name)
			fmt.Fprintf(out, "%s: %s\n", referenceLabel(c), when.Format(c.Reference(), t))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&at, "at", "", "new start")
	return cmd
}
