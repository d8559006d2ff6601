package updates

import (
	"context"
	"strings"

	"github.com/clinekit/clinekit/pkg/exec"
)

// GitRunner abstracts git command execution for testability.
type GitRunner interface {
	// Status returns the output of 'git status --porcelain'.
	Status(ctx context.Context) (string, error)

	// SubmoduleLog returns the output of
	// 'git submodule foreach git log --oneline HEAD..origin/HEAD'.
	SubmoduleLog(ctx context.Context) (string, error)
}

// RealGitRunner executes git through an exec.Runner.
type RealGitRunner struct {
	Runner exec.Runner
}

func (r *RealGitRunner) runner() exec.Runner {
	if r.Runner == nil {
		return &exec.RealRunner{}
	}
	return r.Runner
}

func (r *RealGitRunner) Status(ctx context.Context) (string, error) {
	stdout, _, err := r.runner().Run(ctx, "git", "status", "--porcelain")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(stdout, "\r\n"), nil
}

func (r *RealGitRunner) SubmoduleLog(ctx context.Context) (string, error) {
	stdout, _, err := r.runner().Run(ctx, "git", "submodule", "foreach", "git", "log", "--oneline", "HEAD..origin/HEAD")
	return stdout, err
}

// ParseStatus splits porcelain status output into uncommitted and
// untracked paths.
func ParseStatus(status string) (uncommitted, untracked []string) {
	for _, line := range strings.Split(status, "\n") {
		if len(line) < 4 {
			continue
		}
		// Porcelain format: XY PATH, with '??' marking untracked files.
		if strings.HasPrefix(line, "??") {
			untracked = append(untracked, strings.TrimSpace(line[2:]))
		} else {
			uncommitted = append(uncommitted, strings.TrimSpace(line[2:]))
		}
	}
	return uncommitted, untracked
}
