// Package output renders check results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/clinekit/clinekit/pkg/check"
	"github.com/clinekit/clinekit/pkg/compat"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(s string) string {
	label, rest, ok := strings.Cut(s, ":")
	if !ok || dim == "" {
		return s
	}
	return dim + label + ":" + reset + rest
}

// PrintResult writes a check result with colored status. Detail lines are
// aligned under the name.
func PrintResult(w io.Writer, r check.Result) {
	status, color := "[OK]", green
	if !r.OK() {
		status, color = "[FAIL]", red
	}
	fmt.Fprintf(w, "%s%s%s %s\n", color, status, reset, r.Name)
	indent := strings.Repeat(" ", len(status)+1)
	for _, d := range r.Details {
		fmt.Fprintf(w, "%s%s\n", indent, formatLabel(d))
	}
}

func mark(ok bool) string {
	if ok {
		return green + "✓" + reset
	}
	return red + "✗" + reset
}

// PrintReport writes an environment report as a sectioned listing.
func PrintReport(w io.Writer, rep compat.Report) {
	fmt.Fprintln(w, "Environment Check Results:")
	fmt.Fprintln(w, "-------------------------")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System Requirements:")
	for _, req := range rep.Details.SystemRequirements {
		current := req.CurrentVersion
		if current == "" {
			current = "not found"
		}
		fmt.Fprintf(w, "- %s: %s (%s, required: %s)\n", req.Name, mark(req.Satisfied), current, req.RequiredVersion)
		if req.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", req.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "MCP Server Compatibility:")
	for _, server := range rep.Details.MCPServerCompatibility {
		fmt.Fprintf(w, "- %s: %s\n", server.Name, mark(server.Compatible))
		fmt.Fprintf(w, "  %s\n", server.Details)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	for _, env := range rep.Details.EnvironmentVariables {
		fmt.Fprintf(w, "- %s: %s\n", env.Name, mark(env.Exists))
		if env.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", env.Error)
		}
	}

	overall := mark(true) + " Compatible"
	if !rep.Success {
		overall = mark(false) + " Incompatible"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall Result: %s\n", overall)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
