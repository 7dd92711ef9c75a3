package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/geonode-contrib/geostack/pkg/errors"
	"github.com/geonode-contrib/geostack/pkg/execute"
)

// FakeRunner is an execute.Runner that records invocations and replies with
// canned results, keyed by the command line's prefix.
type FakeRunner struct {
	mu sync.Mutex

	// Calls records every Run invocation in order.
	Calls []execute.Spec

	// Responses maps a command-line prefix ("apt-get install", "docker
	// compose up", ...) to its canned outcome. The longest matching prefix
	// wins.
	Responses map[string]FakeResponse

	// Paths lists executables LookPath reports as present.
	Paths map[string]string
}

// FakeResponse is the canned outcome of a faked command.
type FakeResponse struct {
	Result execute.Result
	Err    error
}

// NewFakeRunner creates an empty FakeRunner. Unmatched commands succeed
// with an empty result.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]FakeResponse),
		Paths:     make(map[string]string),
	}
}

// Respond registers a canned outcome for a command-line prefix.
func (f *FakeRunner) Respond(prefix string, result execute.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[prefix] = FakeResponse{Result: result, Err: err}
}

// RespondError registers a failing outcome with an ErrCommandExit error.
func (f *FakeRunner) RespondError(prefix string, exitCode int, stderr string) {
	f.Respond(prefix, execute.Result{Stderr: stderr, ExitCode: exitCode},
		errors.Newf(errors.ErrCommandExit, "%s exited with status %d", prefix, exitCode))
}

// Run implements execute.Runner.
func (f *FakeRunner) Run(_ context.Context, spec execute.Spec) (execute.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, spec)

	line := CommandLine(spec)
	var bestPrefix string
	var best FakeResponse
	for prefix, resp := range f.Responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
			best = resp
		}
	}
	if bestPrefix != "" {
		return best.Result, best.Err
	}
	return execute.Result{}, nil
}

// LookPath implements execute.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if path, ok := f.Paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%s: executable file not found in $PATH", name)
}

// CommandLines renders every recorded call for assertions.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, len(f.Calls))
	for i, spec := range f.Calls {
		lines[i] = CommandLine(spec)
	}
	return lines
}

// CalledWith reports whether any recorded call starts with the prefix.
func (f *FakeRunner) CalledWith(prefix string) bool {
	for _, line := range f.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// CommandLine renders a spec as a single space-joined command line.
func CommandLine(spec execute.Spec) string {
	return strings.Join(append([]string{spec.Command}, spec.Args...), " ")
}

var _ execute.Runner = (*FakeRunner)(nil)
