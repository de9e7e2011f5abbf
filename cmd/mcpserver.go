package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voiptest/internal/agent"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve voiptest as MCP tools over stdio",
		Long: `Runs an MCP server on stdin/stdout so AI assistants can validate,
list and run scenarios.

Tools:
  voiptest_run          - Run scenarios at a path and return the results
  voiptest_validate     - Validate scenario documents
  voiptest_list         - List the calls each document expands to
  voiptest_get_results  - Return the results of the last run

Logs are written to stderr so they never mix with the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			executor := newExecutor(harnessConfig.SIPp, rootCmd.Version)
			server := agent.NewMCPServer(executor, rootCmd.Version)
			return server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
