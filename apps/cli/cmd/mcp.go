package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	restmdmcp "github.com/abdul-hamid-achik/restmd/packages/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve restmd tools over MCP on stdio",
	Long: heredoc.Doc(`
		Start a Model Context Protocol server on stdin/stdout.

		Tools: restmd_execute, restmd_set_timeout, restmd_set_layout,
		restmd_toggle_headers, restmd_status, restmd_output and
		restmd_clear_output. Execution state lives as long as the server.

		Logs go to stderr.
	`),
	Args: cobra.NoArgs,
	RunE: mcpCommand,
}

func mcpCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	editor := host.NewMemory()
	sess, err := newSession(cfg, editor, logger)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	server := restmdmcp.NewServer(sess, editor, version)
	logger.Info("mcp server starting", "version", version)
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
