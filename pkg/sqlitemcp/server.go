// Package sqlitemcp serves a SQLite database to MCP clients with
// read_query and write_query tools.
package sqlitemcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/logging"
)

// Server identity reported during initialization.
const (
	Name    = "sqlite-server"
	Version = "0.1.0"
)

// Tool names.
const (
	ToolReadQuery  = "read_query"
	ToolWriteQuery = "write_query"
)

// QueryInput is the input of both tools.
type QueryInput struct {
	Query string `json:"query" jsonschema:"SQL query to execute"`
}

// Server exposes db over MCP.
type Server struct {
	mcp    *mcp.Server
	db     *sql.DB
	logger logrus.FieldLogger
}

// New creates a Server for db. The caller owns db.
func New(db *sql.DB, logger logrus.FieldLogger) *Server {
	s := &Server{
		mcp:    mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil),
		db:     db,
		logger: logging.OrDiscard(logger).WithField("component", "sqlitemcp"),
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolReadQuery,
		Description: "Execute a read-only SQL query",
	}, s.handleRead)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolWriteQuery,
		Description: "Execute a SQL query that modifies the database",
	}, s.handleWrite)
	return s
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) handleRead(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return errorResult("Query parameter is required"), nil, nil
	}
	if !isReadOnly(query) {
		return errorResult("Only SELECT queries are allowed for " + ToolReadQuery), nil, nil
	}

	result, err := s.queryReadOnly(ctx, query)
	if err != nil {
		return s.sqlError(ToolReadQuery, err), nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithFields(logrus.Fields{"tool": ToolReadQuery, "rows": len(result)}).Debug("query executed")
	return textResult(string(data)), nil, nil
}

func (s *Server) handleWrite(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return errorResult("Query parameter is required"), nil, nil
	}

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return s.sqlError(ToolWriteQuery, err), nil, nil
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return s.sqlError(ToolWriteQuery, err), nil, nil
	}
	s.logger.WithFields(logrus.Fields{"tool": ToolWriteQuery, "rows": affected}).Debug("query executed")
	return textResult(fmt.Sprintf("Query executed successfully. Rows affected: %d", affected)), nil, nil
}

// queryReadOnly runs query on a dedicated connection with query_only set,
// so any statement that would write fails inside SQLite.
func (s *Server) queryReadOnly(ctx context.Context, query string) ([][]any, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF"); err != nil {
			s.logger.WithError(err).Warn("failed to reset query_only")
		}
	}()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (s *Server) sqlError(tool string, err error) *mcp.CallToolResult {
	s.logger.WithError(err).WithField("tool", tool).Warn("query failed")
	return errorResult("SQLite error: " + err.Error())
}

// isReadOnly reports whether query starts with a read statement. The
// database enforces the restriction; this only yields a clearer message.
func isReadOnly(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "EXPLAIN":
		return true
	}
	return false
}

// collect reads every row as a slice of column values. Byte slices are
// returned as strings.
func collect(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := [][]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}
	return result, rows.Err()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	res := textResult(text)
	res.IsError = true
	return res
}

// Run serves a single session on transport until ctx is cancelled or the
// peer disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("Starting SQLite MCP server")
	err := s.mcp.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithError(err).Error("SQLite MCP server stopped with error")
		return err
	}
	s.logger.Info("SQLite MCP server stopped gracefully")
	return nil
}

// Serve runs the server over stdin and stdout.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
