// Package commands implements the daysince command line. Without a
// subcommand it starts the TUI.
package commands

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/daysince/internal/app"
	"github.com/dori/daysince/internal/config"
	"github.com/dori/daysince/internal/ui"
)

// Version is set at build time
var Version = "0.1.0"

var now = time.Now

// options holds the persistent flags
type options struct {
	configPath string
	theme      string
}

// Execute runs the command line with the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "daysince",
		Short:         "Count the days since, or until, the things that matter",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/daysince/config.toml)")
	root.Flags().StringVar(&opts.theme, "theme", "", "theme (nord, dracula, gruvbox, catppuccin)")

	root.AddCommand(
		addCmd(opts),
		listCmd(opts),
		showCmd(opts),
		archiveCmd(opts),
		completeCmd(opts),
		deleteCmd(opts),
		editCmd(opts),
		historyCmd(opts),
		restoreCmd(opts),
		configCmd(opts),
		versionCmd(),
	)
	return root
}

// loadConfig reads the config file named by --config, or the default one
func (o *options) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}

// start opens the application for a one-shot command. Alerts stay off
// since their timers would die with the process.
func (o *options) start(command string) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(app.Options{Config: cfg, Command: command})
}

// open is start for commands that read or change counters. Unreadable
// data is refused so a write cannot replace it; countdowns that expired
// while nothing was running are completed first.
func (o *options) open(command string) (*app.App, error) {
	a, err := o.start(command)
	if err != nil {
		return nil, err
	}
	if a.LoadErr != nil {
		a.Close()
		return nil, fmt.Errorf("saved counters could not be read (see 'daysince history'): %w", a.LoadErr)
	}
	for _, c := range a.Store.Tick(now()) {
		a.Logger.Info("countdown finished", "id", c.Counter.ID)
	}
	return a, nil
}

func runTUI(opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.theme != "" {
		cfg.Theme = opts.theme
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	application, err := app.New(app.Options{Config: cfg, Command: "tui", Alerts: true})
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
