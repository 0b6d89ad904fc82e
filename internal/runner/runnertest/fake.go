// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"sync"

	"github.com/mmr-tortoise/create-app/internal/runner"
)

// Response is the scripted result for a command line.
type Response struct {
	Output string
	Err    error
}

// Fake records every command it receives and answers from Responses,
// keyed by the rendered command line (runner.Command.String()).
// Commands with no scripted response succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]Response
	Commands  []runner.Command

	// OnRun, when set, is called for every Run before the scripted
	// response is returned. Tests use it to simulate side effects such as
	// a clone creating its target directory.
	OnRun func(cmd runner.Command) error
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{Responses: map[string]Response{}}
}

// On scripts the response for the command line line.
func (f *Fake) On(line string, output string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[line] = Response{Output: output, Err: err}
	return f
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, cmd runner.Command) error {
	resp := f.record(cmd)
	if f.OnRun != nil {
		if err := f.OnRun(cmd); err != nil {
			return err
		}
	}
	return resp.Err
}

// Output implements runner.Runner.
func (f *Fake) Output(_ context.Context, cmd runner.Command) (string, error) {
	resp := f.record(cmd)
	return resp.Output, resp.Err
}

// Lines returns the rendered command lines received so far, in order.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Commands))
	for i, c := range f.Commands {
		lines[i] = c.String()
	}
	return lines
}

func (f *Fake) record(cmd runner.Command) Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, cmd)
	return f.Responses[cmd.String()]
}
