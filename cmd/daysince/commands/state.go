package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errStaysPast = errors.New("completed counters stay in Past")

func archiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Move a counter to Past, or back to Current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open("archive")
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			if !a.Store.ToggleArchive(c.ID) {
				return errStaysPast
			}
			if err := a.Store.SaveErr(); err != nil {
				return err
			}

			if c.IsArchived {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored: %s\n", c.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Archived: %s\n", c.Name)
			}
			return nil
		},
	}
}

func completeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a counter completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open("complete")
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			if !a.Store.MarkCompleted(c.ID) {
				fmt.Fprintf(cmd.OutOrStdout(), "Already completed: %s\n", c.Name)
				return nil
			}
			if err := a.Store.SaveErr(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", c.Name)
			return nil
		},
	}
}
