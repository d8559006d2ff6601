package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/compat"
	"github.com/clinekit/clinekit/pkg/mcpserver"
	"github.com/clinekit/clinekit/pkg/sqlitemcp"
)

var (
	mcpMessage string
	sqliteDB   string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run or query the clinekit MCP server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdio until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runMCPServe,
}

var mcpCallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Call a tool on an in-process server and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPCall,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	Args:  cobra.NoArgs,
	RunE:  runMCPTools,
}

var mcpSQLiteCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Serve a SQLite database over stdio until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runMCPSQLite,
}

func init() {
	mcpSQLiteCmd.Flags().StringVar(&sqliteDB, "db", "", "database path (default: $"+sqlitemcp.EnvDBPath+" or ~/.local/share/mcp/sqlite/db.sqlite)")
	mcpCallCmd.Flags().StringVar(&mcpMessage, "message", "", "message argument for "+mcpserver.ToolExample)
	mcpCmd.AddCommand(mcpServeCmd, mcpCallCmd, mcpToolsCmd, mcpSQLiteCmd)
	rootCmd.AddCommand(mcpCmd)
}

// environmentChecker reloads the settings on every call so edits are
// picked up without restarting the server.
type environmentChecker struct {
	app *app
}

func (c environmentChecker) CheckEnvironment(ctx context.Context) compat.Report {
	servers, err := c.app.loadServers()
	if err != nil {
		c.app.logger.WithError(err).Warn("failed to load MCP settings; checking without servers")
	}
	return c.app.checker(servers).CheckEnvironment(ctx)
}

func newMCPServer(cmd *cobra.Command) (*mcpserver.Server, error) {
	a, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	return mcpserver.New(environmentChecker{app: a}, a.logger), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	s, err := newMCPServer(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()
	return s.Serve(ctx)
}

func runMCPSQLite(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	path, err := sqlitemcp.ResolvePath(sqliteDB, a.getter)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	db, err := sqlitemcp.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	a.logger.WithField("path", path).Debug("opened database")
	return sqlitemcp.New(db, a.logger).Serve(ctx)
}

func runMCPCall(cmd *cobra.Command, args []string) error {
	s, err := newMCPServer(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var toolArgs map[string]any
	if args[0] == mcpserver.ToolExample {
		toolArgs = map[string]any{"message": mcpMessage}
	}
	res, err := s.Call(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			fmt.Fprintln(out, text.Text)
		}
	}
	if res.IsError {
		return ErrCheckFailed
	}
	return nil
}

func runMCPTools(cmd *cobra.Command, _ []string) error {
	s, err := newMCPServer(cmd)
	if err != nil {
		return err
	}
	for _, name := range s.Tools() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
