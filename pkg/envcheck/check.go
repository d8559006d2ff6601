package envcheck

import (
	"fmt"
	"sort"
)

// Check verifies that an environment variable is set.
// An empty value counts as unset.
type Check struct {
	Name   string // env var name
	Getter Getter // injected for testing
}

// Result is the outcome of one presence check.
type Result struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// Run executes the presence check.
func (c *Check) Run() Result {
	result := Result{Name: c.Name, Exists: IsSet(c.Getter, c.Name)}
	if !result.Exists {
		result.Error = fmt.Sprintf("Environment variable %s is not set", c.Name)
	}
	return result
}

// CheckAll runs a presence check for each name, keeping order.
func CheckAll(g Getter, names []string) []Result {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		c := &Check{Name: name, Getter: g}
		results = append(results, c.Run())
	}
	return results
}

// Missing returns the sorted keys of required that are not set in g.
func Missing(g Getter, required map[string]string) []string {
	var missing []string
	for key := range required {
		if !IsSet(g, key) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
