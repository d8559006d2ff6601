// Package settings reads the MCP server map from the Cline settings file.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/extension"
	"github.com/clinekit/clinekit/pkg/exterr"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
)

// FileName is the settings file looked up inside the config directory.
const FileName = "cline_mcp_settings.json"

// FileSystem abstracts file operations for testing.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// RealFileSystem implements FileSystem using the real file system.
type RealFileSystem struct{}

// ReadFile reads the entire file contents.
func (r *RealFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // path comes from user config
}

// Loader reads settings files.
type Loader struct {
	FS FileSystem // injected for testing
}

var validate = validator.New()

// Path returns the settings file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads <dir>/cline_mcp_settings.json and returns its mcpServers map.
// A file without mcpServers yields an empty map.
func (l *Loader) Load(dir string) (map[string]mcpcheck.ServerConfig, error) {
	fs := l.FS
	if fs == nil {
		fs = &RealFileSystem{}
	}

	path := Path(dir)
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, exterr.New(exterr.CodeInvalidPath, fmt.Sprintf("failed to read %s", path), err)
	}
	return Parse(content)
}

// Parse extracts and validates the mcpServers map from a settings document.
func Parse(content []byte) (map[string]mcpcheck.ServerConfig, error) {
	if !gjson.ValidBytes(content) {
		return nil, exterr.Newf(exterr.CodeInvalidConfig, "invalid JSON syntax")
	}

	servers := map[string]mcpcheck.ServerConfig{}
	raw := gjson.GetBytes(content, "mcpServers")
	if !raw.Exists() || raw.Type == gjson.Null {
		return servers, nil
	}
	if !raw.IsObject() {
		return nil, exterr.Newf(exterr.CodeInvalidConfig, "mcpServers must be an object, got %s", raw.Type)
	}

	if err := json.Unmarshal([]byte(raw.Raw), &servers); err != nil {
		return nil, exterr.New(exterr.CodeInvalidConfig, "failed to decode mcpServers", err)
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validate.Struct(servers[name]); err != nil {
			return nil, exterr.New(exterr.CodeValidationFailed, fmt.Sprintf("server %q is invalid", name), err)
		}
	}
	return servers, nil
}

// FromEnv loads the settings from the directory named by CLINE_CONFIG_PATH.
func (l *Loader) FromEnv(g envcheck.Getter) (map[string]mcpcheck.ServerConfig, error) {
	dir, err := extension.GetEnvVar(g, "CLINE_CONFIG_PATH", true)
	if err != nil {
		return nil, err
	}
	return l.Load(dir)
}
