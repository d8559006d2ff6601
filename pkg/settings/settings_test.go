package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exterr"
)

type mockFS struct {
	files map[string]string
}

func (m *mockFS) ReadFile(name string) ([]byte, error) {
	if content, ok := m.files[name]; ok {
		return []byte(content), nil
	}
	return nil, os.ErrNotExist
}

const sample = `{
  "mcpServers": {
    "sqlite": {
      "command": "uvx",
      "args": ["mcp-server-sqlite", "--db-path", "test.db"],
      "env": {"SQLITE_HOME": "/data"},
      "alwaysAllow": ["read_query"]
    },
    "github": {
      "command": "npx -y @modelcontextprotocol/server-github",
      "disabled": true
    }
  }
}`

func TestLoader_Load(t *testing.T) {
	fs := &mockFS{files: map[string]string{Path("/cfg"): sample}}
	l := &Loader{FS: fs}

	servers, err := l.Load("/cfg")

	require.NoError(t, err)
	require.Len(t, servers, 2)
	sqlite := servers["sqlite"]
	assert.Equal(t, "uvx", sqlite.Command)
	assert.Equal(t, []string{"mcp-server-sqlite", "--db-path", "test.db"}, sqlite.Args)
	assert.Equal(t, map[string]string{"SQLITE_HOME": "/data"}, sqlite.Env)
	assert.Equal(t, []string{"read_query"}, sqlite.AlwaysAllow)
	assert.True(t, servers["github"].Disabled)
	assert.Equal(t, "npx", servers["github"].Executable())
}

func TestLoader_LoadMissingFile(t *testing.T) {
	l := &Loader{FS: &mockFS{}}

	_, err := l.Load("/nowhere")

	require.Error(t, err)
	assert.True(t, exterr.HasCode(err, exterr.CodeInvalidPath))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_RealFileSystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sample), 0o644))

	servers, err := (&Loader{}).Load(dir)

	require.NoError(t, err)
	assert.Len(t, servers, 2)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		code    string
	}{
		{name: "no servers key", content: `{"other": 1}`, want: 0},
		{name: "null servers", content: `{"mcpServers": null}`, want: 0},
		{name: "empty servers", content: `{"mcpServers": {}}`, want: 0},
		{name: "invalid json", content: `{"mcpServers": `, code: exterr.CodeInvalidConfig},
		{name: "servers not an object", content: `{"mcpServers": []}`, code: exterr.CodeInvalidConfig},
		{name: "wrong field type", content: `{"mcpServers": {"a": {"command": 5}}}`, code: exterr.CodeInvalidConfig},
		{name: "missing command", content: `{"mcpServers": {"a": {"args": ["x"]}}}`, code: exterr.CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			servers, err := Parse([]byte(tt.content))
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, exterr.Code(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, servers)
			assert.Len(t, servers, tt.want)
		})
	}
}

func TestLoader_FromEnv(t *testing.T) {
	fs := &mockFS{files: map[string]string{Path("/cfg"): sample}}
	l := &Loader{FS: fs}

	servers, err := l.FromEnv(envcheck.MapGetter{"CLINE_CONFIG_PATH": "/cfg"})
	require.NoError(t, err)
	assert.Len(t, servers, 2)

	_, err = l.FromEnv(envcheck.MapGetter{})
	assert.True(t, exterr.HasCode(err, exterr.CodeMissingEnvVar))
}
