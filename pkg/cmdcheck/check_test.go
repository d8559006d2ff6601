package cmdcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinekit/clinekit/pkg/exec"
)

var nodeRequirement = Requirement{
	Name:        "Node.js",
	MinVersion:  "20.0.0",
	Command:     "node",
	VersionFlag: "--version",
}

func versionRunner(stdout string) *exec.MockRunner {
	return &exec.MockRunner{
		RunFunc: func(_ context.Context, name string, args ...string) (string, string, error) {
			return stdout, "", nil
		},
	}
}

func TestCheck_Run(t *testing.T) {
	tests := []struct {
		name          string
		stdout        string
		wantSatisfied bool
		wantCurrent   string
		wantErr       string
	}{
		{name: "equal to minimum", stdout: "v20.0.0\n", wantSatisfied: true, wantCurrent: "20.0.0"},
		{name: "above minimum", stdout: "v22.3.1\n", wantSatisfied: true, wantCurrent: "22.3.1"},
		{name: "numeric not lexicographic", stdout: "v100.0.0", wantSatisfied: true, wantCurrent: "100.0.0"},
		{name: "below minimum", stdout: "v19.9.9\n", wantSatisfied: false, wantCurrent: "19.9.9"},
		{name: "short version padded", stdout: "20", wantSatisfied: true, wantCurrent: "20"},
		{name: "unparsable output", stdout: "node: bad option", wantErr: "Failed to check Node.js version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Check{Requirement: nodeRequirement, Runner: versionRunner(tt.stdout)}

			result := c.Run(context.Background())

			assert.Equal(t, "Node.js", result.Name)
			assert.Equal(t, "20.0.0", result.RequiredVersion)
			assert.Equal(t, tt.wantSatisfied, result.Satisfied)
			assert.Equal(t, tt.wantCurrent, result.CurrentVersion)
			if tt.wantErr != "" {
				assert.Contains(t, result.Error, tt.wantErr)
			} else {
				assert.Empty(t, result.Error)
			}
		})
	}
}

func TestCheck_Run_CommandFails(t *testing.T) {
	runner := &exec.MockRunner{
		RunFunc: func(context.Context, string, ...string) (string, string, error) {
			return "", "npm: command not found\n", errors.New("exit status 127")
		},
	}
	c := &Check{
		Requirement: Requirement{Name: "npm", MinVersion: "10.0.0", Command: "npm"},
		Runner:      runner,
	}

	result := c.Run(context.Background())

	assert.False(t, result.Satisfied)
	assert.Empty(t, result.CurrentVersion)
	assert.Equal(t, "10.0.0", result.RequiredVersion)
	assert.Equal(t, "Failed to check npm version: exit status 127: npm: command not found", result.Error)
}

func TestCheck_Run_PassesCommandAndFlag(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := &exec.MockRunner{
		RunFunc: func(_ context.Context, name string, args ...string) (string, string, error) {
			gotName, gotArgs = name, args
			return "3.12.1", "", nil
		},
	}
	c := &Check{
		Requirement: Requirement{Name: "Python", MinVersion: "3.10", Command: "python3", VersionFlag: "-c 'x'"},
		Runner:      runner,
	}
	c.Run(context.Background())
	assert.Equal(t, "python3", gotName)
	assert.Equal(t, []string{"-c", "'x'"}, gotArgs)

	c.Requirement.VersionFlag = ""
	c.Run(context.Background())
	assert.Equal(t, []string{DefaultVersionFlag}, gotArgs)
}

func TestCheck_Run_InvalidMinimum(t *testing.T) {
	c := &Check{
		Requirement: Requirement{Name: "node", MinVersion: "latest", Command: "node"},
		Runner:      versionRunner("v20.0.0"),
	}

	result := c.Run(context.Background())

	assert.False(t, result.Satisfied)
	assert.Contains(t, result.Error, "invalid minimum version")
}

func TestCheck_Run_Logs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c := &Check{Requirement: nodeRequirement, Runner: versionRunner("v21.0.0"), Logger: logger}

	c.Run(context.Background())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "version probe finished", entry.Message)
	assert.Equal(t, "Node.js", entry.Data["requirement"])
	assert.Equal(t, true, entry.Data["satisfied"])
}
