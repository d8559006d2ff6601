// Package mcpserver is a small MCP server exposing clinekit over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/compat"
	"github.com/clinekit/clinekit/pkg/exterr"
	"github.com/clinekit/clinekit/pkg/logging"
)

// Server identity reported during initialization.
const (
	Name    = "custom-mcp-server"
	Version = "1.0.0"
)

// Tool names.
const (
	ToolExample          = "example_tool"
	ToolCheckEnvironment = "check_environment"
)

// EnvironmentChecker produces a compatibility report.
type EnvironmentChecker interface {
	CheckEnvironment(ctx context.Context) compat.Report
}

// Server wraps an mcp.Server with the clinekit tools registered.
type Server struct {
	mcp     *mcp.Server
	checker EnvironmentChecker
	logger  logrus.FieldLogger
	tools   []string
}

// ExampleInput is the input of example_tool.
type ExampleInput struct {
	Message string `json:"message" jsonschema:"Message to process"`
}

// CheckEnvironmentInput is the input of check_environment.
type CheckEnvironmentInput struct{}

// New creates a Server. checker may be nil, in which case
// check_environment is not registered.
func New(checker EnvironmentChecker, logger logrus.FieldLogger) *Server {
	s := &Server{
		mcp:     mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil),
		checker: checker,
		logger:  logging.OrDiscard(logger).WithField("component", "mcpserver"),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Tools returns the names of the registered tools.
func (s *Server) Tools() []string {
	return slices.Clone(s.tools)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolExample,
		Description: "Example tool implementation",
	}, s.handleExample)
	s.tools = append(s.tools, ToolExample)

	if s.checker != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        ToolCheckEnvironment,
			Description: "Check system requirements, configured MCP servers and required environment variables.",
		}, s.handleCheckEnvironment)
		s.tools = append(s.tools, ToolCheckEnvironment)
	}

	s.logger.WithField("count", len(s.tools)).Debug("MCP tools registered")
}

func (s *Server) handleExample(_ context.Context, _ *mcp.CallToolRequest, in ExampleInput) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolExample).Debug("tool called")
	return textResult("Processed: " + in.Message), nil, nil
}

func (s *Server) handleCheckEnvironment(ctx context.Context, _ *mcp.CallToolRequest, _ CheckEnvironmentInput) (*mcp.CallToolResult, compat.Report, error) {
	report := s.checker.CheckEnvironment(ctx)
	s.logger.WithFields(logrus.Fields{
		"tool":    ToolCheckEnvironment,
		"success": report.Success,
	}).Debug("tool called")
	return nil, report, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Run serves a single session on transport until ctx is cancelled or the
// peer disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("Starting MCP server")
	err := s.mcp.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithError(err).Error("MCP server stopped with error")
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}

// Serve runs the server over stdin and stdout.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Call invokes a tool through an in-process client session. An
// unregistered tool yields an UNKNOWN_TOOL error.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if !slices.Contains(s.tools, name) {
		return nil, exterr.Newf(exterr.CodeUnknownTool, "Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := s.mcp.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start server session: %w", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: Name + "-client", Version: Version}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect client: %w", err)
	}
	defer cs.Close()

	return cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
}
