package cli

import (
	"log/slog"

	"github.com/meltforce/rowplan/internal/client"
	"github.com/meltforce/rowplan/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	var (
		serverURL string
		timeout   = client.DefaultTimeout
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the rowplan MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs go to stderr.
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			s := mcp.New(client.NewClient(serverURL, timeout), app.Version, log)
			return mcp.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "rowplan server URL")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")

	return cmd
}
