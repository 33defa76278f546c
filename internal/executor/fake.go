package executor

import (
	"fmt"
	"strings"
)

// FakeResult is a scripted response for the fake executor.
type FakeResult struct {
	Stdout string
	Stderr string
	Err    error
}

// FakeCall records a single invocation seen by the fake executor.
type FakeCall struct {
	Dir  string
	Name string
	Args []string
}

// Fake implements CommandExecutor with scripted responses, keyed by a
// prefix of the command line. Every invocation is recorded so tests can
// assert on the exact arguments issued to external tools.
type Fake struct {
	Calls   []FakeCall
	results map[string]FakeResult
	// Handler, when set, takes precedence over scripted results. It
	// lets tests produce a different output per call (dynamic aliases).
	Handler func(call FakeCall) (FakeResult, bool)
}

// NewFake creates an empty fake executor. Unscripted commands succeed
// with empty output.
func NewFake() *Fake {
	return &Fake{results: make(map[string]FakeResult)}
}

// Script registers a response for any command line starting with prefix
// (the command name followed by its arguments, space-joined).
func (f *Fake) Script(prefix string, result FakeResult) {
	f.results[prefix] = result
}

// CommandLines returns every recorded invocation as a space-joined line.
func (f *Fake) CommandLines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, strings.Join(append([]string{c.Name}, c.Args...), " "))
	}
	return lines
}

// Run implements CommandExecutor.
func (f *Fake) Run(dir string, name string, args ...string) ([]byte, []byte, error) {
	call := FakeCall{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)

	if f.Handler != nil {
		if res, ok := f.Handler(call); ok {
			return []byte(res.Stdout), []byte(res.Stderr), res.Err
		}
	}

	line := strings.Join(append([]string{name}, args...), " ")
	var best string
	for prefix := range f.results {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		res := f.results[best]
		return []byte(res.Stdout), []byte(res.Stderr), res.Err
	}
	return nil, nil, nil
}

// Shell implements CommandExecutor.
func (f *Fake) Shell(dir string, command string) ([]byte, []byte, error) {
	return f.Run(dir, "sh", "-c", command)
}

// ExitError builds an error resembling a non-zero process exit.
func ExitError(name string, code int) error {
	return fmt.Errorf("%s failed: exit status %d", name, code)
}
