package check

// Checker is implemented by every setup step.
type Checker interface {
	Run() Result
}

// Func adapts a plain function to Checker.
type Func func() Result

// Run calls f.
func (f Func) Run() Result {
	return f()
}

// RunAll runs the checkers in order and reports whether all passed.
// When stopOnFail is set, checkers after the first failure are skipped.
func RunAll(checkers []Checker, stopOnFail bool) ([]Result, bool) {
	results := make([]Result, 0, len(checkers))
	ok := true
	for _, c := range checkers {
		r := c.Run()
		results = append(results, r)
		if !r.OK() {
			ok = false
			if stopOnFail {
				break
			}
		}
	}
	return results, ok
}
