package version

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
// Missing trailing segments count as zero, so 1.2 == 1.2.0.
func (v Version) Compare(other Version) int {
	n := max(len(v.Segments), len(other.Segments))
	for i := 0; i < n; i++ {
		a, b := v.Segment(i), other.Segment(i)
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// GreaterThanOrEqual returns true if v >= other.
func (v Version) GreaterThanOrEqual(other Version) bool {
	return v.Compare(other) >= 0
}

// CompareStrings parses both strings and compares them.
func CompareStrings(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}
