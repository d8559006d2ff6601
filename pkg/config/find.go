package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project configuration file.
const FileName = ".clinekit.yaml"

// ErrNotFound is returned by FindFile when no configuration file exists.
var ErrNotFound = errors.New(FileName + " not found")

// FindFile returns explicitPath if set, otherwise walks up from startDir
// looking for .clinekit.yaml. The walk stops at the home directory, at a
// directory holding .git, or at the filesystem root.
func FindFile(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		if currentDir == homeDir {
			break
		}
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", ErrNotFound
}
