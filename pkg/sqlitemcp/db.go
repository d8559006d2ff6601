package sqlitemcp

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exterr"
)

// EnvDBPath overrides the database location.
const EnvDBPath = "SQLITE_DB_PATH"

// DefaultPath returns the database location under home.
func DefaultPath(home string) string {
	return filepath.Join(home, ".local", "share", "mcp", "sqlite", "db.sqlite")
}

// ResolvePath picks the database path: explicit, then SQLITE_DB_PATH, then
// the default under the user's home directory.
func ResolvePath(explicit string, g envcheck.Getter) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v, ok := g.LookupEnv(EnvDBPath); ok && v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", exterr.Wrap(exterr.CodeInvalidPath, err)
	}
	return DefaultPath(home), nil
}

// DSN returns the driver URI for the database file at path. The path is
// made absolute and percent-escaped so "?", "#" and "%" stay part of it.
func DSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", exterr.Wrap(exterr.CodeInvalidPath, err)
	}
	u := url.URL{Path: filepath.ToSlash(abs)}
	return "file:" + u.EscapedPath() + "?_pragma=busy_timeout=5000", nil
}

// Open creates the parent directory of path and opens the database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, exterr.Wrap(exterr.CodeInvalidPath, err)
	}
	dsn, err := DSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return db, nil
}
