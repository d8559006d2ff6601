// Package updates reports pending git submodule and npm package updates
// for a working copy.
package updates

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/clinekit/clinekit/pkg/exec"
	"github.com/clinekit/clinekit/pkg/logging"
)

// Kind is the source of an update.
type Kind string

const (
	KindSubmodule Kind = "submodule"
	KindNpm       Kind = "npm"
)

// Bump classifies the distance between two versions.
type Bump string

const (
	BumpMajor   Bump = "major"
	BumpMinor   Bump = "minor"
	BumpPatch   Bump = "patch"
	BumpUnknown Bump = "unknown"
)

// Update describes one available update.
type Update struct {
	Kind             Kind   `json:"type"`
	Name             string `json:"name"`
	CurrentVersion   string `json:"currentVersion"`
	AvailableVersion string `json:"availableVersion"`
	Bump             Bump   `json:"bump,omitempty"`
}

// Exit codes carried by UpdateError.
const (
	CodeDirty            = 1
	CodeUpdatesAvailable = 2
	CodeUnexpected       = 99
)

// UpdateError is returned by Checker.Run with a process exit code.
type UpdateError struct {
	Message string
	Code    int
}

// NewUpdateError creates an UpdateError. It panics on a negative code.
func NewUpdateError(message string, code int) *UpdateError {
	if code < 0 {
		panic("UpdateError code must be a non-negative integer")
	}
	return &UpdateError{Message: message, Code: code}
}

func (e *UpdateError) Error() string {
	return e.Message
}

func (e *UpdateError) String() string {
	return fmt.Sprintf("UpdateError: %s (code: %d)", e.Message, e.Code)
}

// Checker looks for updates in the current working copy.
type Checker struct {
	Git    GitRunner          // injected for testing
	Runner exec.Runner        // runs npm; injected for testing
	Out    io.Writer          // receives the report
	Logger logrus.FieldLogger // optional
}

func (c *Checker) log() logrus.FieldLogger {
	return logging.OrDiscard(c.Logger).WithField("component", "updates")
}

// CheckGitStatus reports whether the working tree is clean.
func (c *Checker) CheckGitStatus(ctx context.Context) (bool, error) {
	status, err := c.Git.Status(ctx)
	if err != nil {
		return false, err
	}
	if status == "" {
		return true, nil
	}
	uncommitted, untracked := ParseStatus(status)
	c.log().WithFields(logrus.Fields{
		"uncommitted": len(uncommitted),
		"untracked":   len(untracked),
	}).Debug("working directory dirty")
	return false, nil
}

var enteringName = regexp.MustCompile(`["'](.+)["']$`)

// CheckSubmoduleUpdates lists submodules that git visits while looking for
// commits not yet pulled. Failures are logged and yield no updates.
func (c *Checker) CheckSubmoduleUpdates(ctx context.Context) []Update {
	output, err := c.Git.SubmoduleLog(ctx)
	if err != nil {
		c.log().WithError(err).Error("submodule check failed")
		return nil
	}

	var updates []Update
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "Entering") {
			continue
		}
		m := enteringName.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			continue
		}
		updates = append(updates, Update{
			Kind:             KindSubmodule,
			Name:             m[1],
			CurrentVersion:   "current",
			AvailableVersion: "latest",
		})
	}
	return updates
}

// CheckNpmUpdates parses 'npm outdated --json'. npm exits non-zero when
// packages are outdated, so output is parsed regardless of the exit
// status. Entries without both versions are skipped. Failures are logged
// and yield no updates.
func (c *Checker) CheckNpmUpdates(ctx context.Context) []Update {
	stdout, stderr, err := c.Runner.Run(ctx, "npm", "outdated", "--json")
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		if err != nil && !strings.Contains(stderr, "No outdated packages") {
			c.log().WithError(err).Error("npm update check failed")
		}
		return nil
	}
	if !gjson.Valid(stdout) {
		c.log().WithField("output", stdout).Error("npm update check failed: invalid JSON")
		return nil
	}
	return parseOutdated(gjson.Parse(stdout))
}

func parseOutdated(doc gjson.Result) []Update {
	var updates []Update
	doc.ForEach(func(key, value gjson.Result) bool {
		current := value.Get("current").String()
		latest := value.Get("latest").String()
		if current == "" || latest == "" {
			return true
		}
		updates = append(updates, Update{
			Kind:             KindNpm,
			Name:             key.String(),
			CurrentVersion:   current,
			AvailableVersion: latest,
			Bump:             Classify(current, latest),
		})
		return true
	})
	sort.Slice(updates, func(i, j int) bool { return updates[i].Name < updates[j].Name })
	return updates
}

// Classify names the most significant component that differs between
// current and latest.
func Classify(current, latest string) Bump {
	from, err := semver.NewVersion(current)
	if err != nil {
		return BumpUnknown
	}
	to, err := semver.NewVersion(latest)
	if err != nil {
		return BumpUnknown
	}
	switch {
	case from.Major() != to.Major():
		return BumpMajor
	case from.Minor() != to.Minor():
		return BumpMinor
	case from.Patch() != to.Patch():
		return BumpPatch
	default:
		return BumpUnknown
	}
}

// GenerateReport renders updates as a markdown summary.
func GenerateReport(updates []Update) string {
	if len(updates) == 0 {
		return "No updates available."
	}

	var submodules, packages []string
	for _, u := range updates {
		line := fmt.Sprintf("- %s: %s -> %s", u.Name, u.CurrentVersion, u.AvailableVersion)
		switch u.Kind {
		case KindSubmodule:
			submodules = append(submodules, line)
		case KindNpm:
			packages = append(packages, line)
		}
	}

	var b strings.Builder
	b.WriteString("# Available Updates\n\n")
	if len(submodules) > 0 {
		b.WriteString("## Submodules\n" + strings.Join(submodules, "\n") + "\n\n")
	}
	if len(packages) > 0 {
		b.WriteString("## NPM Packages\n" + strings.Join(packages, "\n") + "\n\n")
	}
	return b.String()
}

// Run checks the tree, collects updates and writes the report to Out.
// The returned error is always an *UpdateError: CodeDirty for a dirty
// tree, CodeUpdatesAvailable when the report lists anything and
// CodeUnexpected when git fails.
func (c *Checker) Run(ctx context.Context) ([]Update, error) {
	log := c.log()

	clean, err := c.CheckGitStatus(ctx)
	if err != nil {
		msg := fmt.Sprintf("Unexpected error: %v", err)
		log.Error(msg)
		return nil, NewUpdateError(msg, CodeUnexpected)
	}
	if !clean {
		msg := "Working directory is not clean. Please commit or stash changes first."
		log.Error(msg)
		return nil, NewUpdateError(msg, CodeDirty)
	}

	updates := append(c.CheckSubmoduleUpdates(ctx), c.CheckNpmUpdates(ctx)...)

	if c.Out != nil {
		if _, err := io.WriteString(c.Out, GenerateReport(updates)); err != nil {
			msg := fmt.Sprintf("Unexpected error: %v", err)
			log.Error(msg)
			return updates, NewUpdateError(msg, CodeUnexpected)
		}
	}

	if len(updates) > 0 {
		msg := "Updates available. Run `npm run update` to apply them."
		log.Warn(msg)
		return updates, NewUpdateError(msg, CodeUpdatesAvailable)
	}
	return updates, nil
}
