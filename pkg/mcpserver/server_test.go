package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinekit/clinekit/pkg/cmdcheck"
	"github.com/clinekit/clinekit/pkg/compat"
	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exterr"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
)

type fakeChecker struct {
	report compat.Report
	calls  int
}

func (f *fakeChecker) CheckEnvironment(context.Context) compat.Report {
	f.calls++
	return f.report
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestNew_RegistersTools(t *testing.T) {
	assert.Equal(t, []string{ToolExample}, New(nil, nil).Tools())
	assert.Equal(t, []string{ToolExample, ToolCheckEnvironment}, New(&fakeChecker{}, nil).Tools())
}

func TestHandleExample(t *testing.T) {
	s := New(nil, nil)

	res, out, err := s.handleExample(context.Background(), nil, ExampleInput{Message: "hello"})

	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "Processed: hello", textOf(t, res))
	assert.False(t, res.IsError)
}

func TestHandleCheckEnvironment(t *testing.T) {
	checker := &fakeChecker{report: compat.Report{Success: true}}
	s := New(checker, nil)

	res, report, err := s.handleCheckEnvironment(context.Background(), nil, CheckEnvironmentInput{})

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.True(t, report.Success)
	assert.Equal(t, 1, checker.calls)
}

func TestCall_ExampleTool(t *testing.T) {
	s := New(nil, nil)

	res, err := s.Call(context.Background(), ToolExample, map[string]any{"message": "from client"})

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Processed: from client", textOf(t, res))
}

func TestCall_CheckEnvironment(t *testing.T) {
	checker := &fakeChecker{report: compat.Report{Details: compat.Details{
		SystemRequirements:     []cmdcheck.Result{{Name: "Node.js", RequiredVersion: "20.0.0", Error: "Failed to check Node.js version: not found"}},
		MCPServerCompatibility: []mcpcheck.Result{},
		EnvironmentVariables:   []envcheck.Result{},
	}}}
	s := New(checker, nil)

	res, err := s.Call(context.Background(), ToolCheckEnvironment, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, checker.calls)
	text := textOf(t, res)
	assert.Contains(t, text, `"success":false`)
	assert.Contains(t, text, "Failed to check Node.js version")
}

func TestCall_UnknownTool(t *testing.T) {
	s := New(nil, nil)

	_, err := s.Call(context.Background(), ToolCheckEnvironment, nil)

	require.Error(t, err)
	assert.True(t, exterr.HasCode(err, exterr.CodeUnknownTool))
	assert.Equal(t, "UNKNOWN_TOOL: Unknown tool: check_environment", err.Error())
}

func TestRun_ListTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(&fakeChecker{}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	assert.Equal(t, Name, cs.InitializeResult().ServerInfo.Name)
	assert.Equal(t, Version, cs.InitializeResult().ServerInfo.Version)

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolExample, ToolCheckEnvironment}, names)

	_, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "nope", Arguments: map[string]any{}})
	assert.Error(t, err)

	require.NoError(t, cs.Close())
	cancel()
	<-done
}
