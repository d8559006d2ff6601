package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted numeric version such as 20.11.1 or 10.2.
// It holds as many segments as the input had.
type Version struct {
	Segments []int
}

// String returns the version as a dotted string.
func (v Version) String() string {
	parts := make([]string, len(v.Segments))
	for i, s := range v.Segments {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ".")
}

// Segment returns the i-th segment, or 0 when the version is shorter.
func (v Version) Segment(i int) int {
	if i < len(v.Segments) {
		return v.Segments[i]
	}
	return 0
}

// Parse parses a version string like "v20.11.1", "10.2" or "18".
// Surrounding whitespace and a single leading "v" are ignored. A segment may
// carry a non-numeric suffix ("0-beta"), which is dropped.
func Parse(s string) (Version, error) {
	s = Normalize(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	fields := strings.Split(s, ".")
	segments := make([]int, 0, len(fields))
	for _, f := range fields {
		digits := leadingDigits(f)
		if digits == "" {
			return Version{}, fmt.Errorf("invalid version format: %q", s)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version segment %q: %w", f, err)
		}
		segments = append(segments, n)
	}

	return Version{Segments: segments}, nil
}

// Normalize trims whitespace and strips one leading "v" from raw
// version command output.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimPrefix(s, "v")
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
