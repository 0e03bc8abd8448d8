package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/when"
)

// listEntry is the JSON shape of a listed counter
type listEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	At        time.Time `json:"at"`
	Archived  bool      `json:"archived"`
	Completed bool      `json:"completed"`
	Value     int64     `json:"value"`
	Label     string    `json:"label"`
	Clock     string    `json:"clock"`
}

func newListEntry(c model.Counter, t time.Time) listEntry {
	b := display.Compute(c, t)
	compact := display.Largest(b, c.Type)
	return listEntry{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		At:        c.Reference(),
		Archived:  c.IsArchived,
		Completed: c.Completed,
		Value:     compact.Value,
		Label:     compact.Label,
		Clock:     display.Clock(b),
	}
}

func listCmd(opts *options) *cobra.Command {
	var past, asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List current counters, or archived ones with --past",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open("list")
			if err != nil {
				return err
			}
			defer a.Close()

			t := now()
			counters := a.Store.Displayed(past)
			out := cmd.OutOrStdout()

			if asJSON {
				entries := make([]listEntry, 0, len(counters))
				for _, c := range counters {
					entries = append(entries, newListEntry(c, t))
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(counters) == 0 {
				if past {
					fmt.Fprintln(out, "No past counters.")
				} else {
					fmt.Fprintln(out, "No counters. Add one with: daysince add NAME")
				}
				return nil
			}

			tbl := table.New().
				Border(lipgloss.RoundedBorder()).
				Headers("ID", "NAME", "VALUE", "AT", "STATE")
			for _, c := range counters {
				tbl.Row(
					shortID(c.ID),
					c.Name,
					summary(c, t),
					when.Format(c.Reference(), t),
					state(c),
				)
			}
			fmt.Fprintln(out, tbl.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&past, "past", false, "list archived and completed counters")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
