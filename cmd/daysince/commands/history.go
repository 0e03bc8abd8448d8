package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/store"
)

// previewNames is how many counter names a history line lists
const previewNames = 3

func historyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List earlier saved versions of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start("history")
			if err != nil {
				return err
			}
			defer a.Close()

			snapshots, err := a.DB.History(store.Key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snapshots) == 0 {
				fmt.Fprintln(out, "No history.")
				return nil
			}
			t := now()
			for i, raw := range snapshots {
				counters, err := store.Decode(raw, t)
				if err != nil {
					fmt.Fprintf(out, "%3d  unreadable\n", i+1)
					continue
				}
				names := make([]string, 0, previewNames)
				for _, c := range counters {
					if len(names) == previewNames {
						names = append(names, "...")
						break
					}
					names = append(names, c.Name)
				}
				fmt.Fprintf(out, "%3d  %d counters  %s\n", i+1, len(counters), strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func restoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore N",
		Short: "Replace the collection with entry N of 'daysince history'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid history entry %q", args[0])
			}

			a, err := opts.start("restore")
			if err != nil {
				return err
			}
			defer a.Close()

			snapshots, err := a.DB.History(store.Key)
			if err != nil {
				return err
			}
			if n > len(snapshots) {
				return fmt.Errorf("history has %d entries", len(snapshots))
			}

			if err := a.Store.Replace(snapshots[n-1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored entry %d (%d counters)\n", n, a.Store.Len())
			return nil
		},
	}
}
