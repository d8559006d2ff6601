// Package exec runs external commands and captures their output.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner abstracts command execution for testability.
type Runner interface {
	// LookPath searches for an executable in PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its captured output.
	// A non-zero exit status is reported as an error alongside the output.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// Locate asks the platform locate utility (which, where) for name and
// returns the first path it prints.
func Locate(ctx context.Context, r Runner, name string) (string, error) {
	stdout, _, err := r.Run(ctx, locateCommand, name)
	if err != nil {
		return "", err
	}
	path, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(path), nil
}

// LocateCommand returns the name of the platform locate utility.
func LocateCommand() string {
	return locateCommand
}

// ExitCode returns the exit status carried by err, or -1 when err did not
// come from a process that ran to completion.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
