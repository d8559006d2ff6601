package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/clinekit/clinekit/pkg/updates"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"check failed", ErrCheckFailed, 1},
		{"plain error", errors.New("boom"), 1},
		{"dirty tree", updates.NewUpdateError("dirty", updates.CodeDirty), 1},
		{"updates available", updates.NewUpdateError("updates", updates.CodeUpdatesAvailable), 2},
		{"wrapped unexpected", fmt.Errorf("run: %w", updates.NewUpdateError("x", updates.CodeUnexpected)), 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
