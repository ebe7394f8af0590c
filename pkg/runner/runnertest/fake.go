// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"os/exec"
	"slices"
	"sync"

	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// Call is one recorded invocation.
type Call struct {
	Method string // "Output" or "Run"
	Name   string
	Args   []string
}

type response struct {
	output []byte
	err    error
}

// Fake answers invocations from canned responses. Binaries without a response are
// reported as not found.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]response
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{responses: make(map[string]response)}
}

// On registers the stdout and error returned when name is invoked.
func (f *Fake) On(name string, output []byte, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[name] = response{output: output, err: err}
	return f
}

// OnSuccess registers a successful invocation of name with the given stdout.
func (f *Fake) OnSuccess(name string, output string) *Fake {
	return f.On(name, []byte(output), nil)
}

// Unavailable makes name fail to launch.
func (f *Fake) Unavailable(name string) *Fake {
	return f.On(name, nil, &runner.LaunchError{Name: name, Err: exec.ErrNotFound})
}

func (f *Fake) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	resp := f.record("Output", name, args)
	return resp.output, resp.err
}

func (f *Fake) Run(_ context.Context, name string, args ...string) error {
	return f.record("Run", name, args).err
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Names returns the names of the invoked binaries in order.
func (f *Fake) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.Name)
	}
	return names
}

func (f *Fake) record(method, name string, args []string) response {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Method: method, Name: name, Args: slices.Clone(args)})

	resp, ok := f.responses[name]
	if !ok {
		return response{err: &runner.LaunchError{Name: name, Err: exec.ErrNotFound}}
	}
	return resp
}

var _ runner.Runner = (*Fake)(nil)
