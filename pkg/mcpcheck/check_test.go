package mcpcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exec"
)

// locator resolves only the executables listed in found.
func locator(found ...string) *exec.MockRunner {
	return &exec.MockRunner{
		RunFunc: func(_ context.Context, name string, args ...string) (string, string, error) {
			if name != exec.LocateCommand() || len(args) != 1 {
				return "", "", errors.New("unexpected command")
			}
			for _, f := range found {
				if args[0] == f {
					return "/usr/bin/" + f + "\n", "", nil
				}
			}
			return "", "", errors.New("exit status 1")
		},
	}
}

func TestServerConfig_Executable(t *testing.T) {
	tests := map[string]string{
		"node":              "node",
		"npx -y @mcp/fetch": "npx",
		"  uvx  server ":    "uvx",
		"":                  "",
	}
	for command, want := range tests {
		got := ServerConfig{Command: command}.Executable()
		assert.Equal(t, want, got, "command %q", command)
	}
}

func TestCheck_Run(t *testing.T) {
	tests := []struct {
		name           string
		config         ServerConfig
		vars           envcheck.MapGetter
		wantCompatible bool
		wantDetails    string
	}{
		{
			name:           "all checks pass",
			config:         ServerConfig{Command: "node", Args: []string{"server.js"}, Env: map[string]string{"TEST_ENV": "test"}},
			vars:           envcheck.MapGetter{"TEST_ENV": "other"},
			wantCompatible: true,
			wantDetails:    DetailPassed,
		},
		{
			name:        "command not found",
			config:      ServerConfig{Command: "deno run server.ts"},
			vars:        envcheck.MapGetter{},
			wantDetails: "Command 'deno run server.ts' not found in system PATH",
		},
		{
			name:        "empty command",
			config:      ServerConfig{Command: "  "},
			vars:        envcheck.MapGetter{},
			wantDetails: "Command '  ' not found in system PATH",
		},
		{
			name:        "missing environment variables",
			config:      ServerConfig{Command: "npx -y server", Env: map[string]string{"TOKEN": "x", "API_KEY": "y", "SET": "z"}},
			vars:        envcheck.MapGetter{"SET": "1"},
			wantDetails: "Missing required environment variables: API_KEY, TOKEN",
		},
		{
			name:           "no env required",
			config:         ServerConfig{Command: "npx"},
			vars:           envcheck.MapGetter{},
			wantCompatible: true,
			wantDetails:    DetailPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Check{
				Name:   "test-server",
				Config: tt.config,
				Runner: locator("node", "npx"),
				Getter: tt.vars,
			}

			got := c.Run(context.Background())

			assert.Equal(t, "test-server", got.Name)
			assert.Equal(t, tt.wantCompatible, got.Compatible)
			assert.Equal(t, tt.wantDetails, got.Details)
		})
	}
}

func TestCheck_Run_CommandCheckedBeforeEnv(t *testing.T) {
	c := &Check{
		Name:   "s",
		Config: ServerConfig{Command: "missing", Env: map[string]string{"NOPE": ""}},
		Runner: locator(),
		Getter: envcheck.MapGetter{},
	}

	got := c.Run(context.Background())

	assert.False(t, got.Compatible)
	assert.Contains(t, got.Details, "not found in system PATH")
}
