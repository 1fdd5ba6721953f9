// Package cli implements the rowplan-cli commands.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:3000"

// App carries the process-level settings shared by every command.
type App struct {
	// Color enables lipgloss styling. main sets it when stdout is a terminal.
	Color bool

	// Now is read at write time for export filenames and template dates.
	Now func() time.Time

	Version string
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "rowplan-cli" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rowplan-cli",
		Short:         "Generate rowing workout schedules from training periods",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(app),
		newPeriodsCmd(app),
		newMCPCmd(app),
	)

	return root
}
