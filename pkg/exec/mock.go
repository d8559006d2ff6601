package exec

import "context"

// MockRunner is a test double for Runner.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(ctx context.Context, name string, args ...string) (string, string, error)
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	return m.LookPathFunc(file)
}

// Run calls the mock function.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	return m.RunFunc(ctx, name, args...)
}
