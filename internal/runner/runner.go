// Package runner executes external programs (git, node, corepack and the
// package managers) on behalf of the bootstrap pipeline.
//
// Every invocation is synchronous: Run and Output return only after the
// child process exits. There are no timeouts; the context passed in is
// the cobra command context, so an interrupted CLI still tears the child
// down.
//
// Two output modes exist:
//   - Streaming (the default): the child inherits the runner's stdin,
//     stdout and stderr so the user sees real-time progress (clone,
//     install).
//   - Quiet: stdout is discarded and stderr is captured for the error
//     message only (corepack, git init/add/commit).
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external program invocation.
type Command struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Name is the program to run, resolved through PATH.
	Name string

	// Args are the program arguments (without the program name).
	Args []string

	// Quiet suppresses the child's output. Stderr is still captured and
	// included in the returned error.
	Quiet bool
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner is the capability to run external programs. The pipeline
// packages depend on this interface so tests can substitute a fake.
type Runner interface {
	// Run executes the command and waits for it to finish.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its trimmed stdout.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExitError is returned when a command could not be started or exited
// with a non-zero status.
type ExitError struct {
	// Command is the rendered command line.
	Command string

	// Code is the process exit code, or -1 if the process never started.
	Code int

	// Stderr is the captured standard error (quiet and output modes only).
	Stderr string

	// Err is the underlying os/exec error.
	Err error
}

// Error satisfies the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.Code >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.Code)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	} else if e.Code < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying os/exec error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs commands with os/exec.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Exec bound to the process's standard streams.
func New() *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd, streaming or discarding its output according to
// cmd.Quiet.
func (e *Exec) Run(ctx context.Context, cmd Command) error {
	// #nosec G204 -- program names are fixed by the caller, not user input
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	var stderr bytes.Buffer
	if cmd.Quiet {
		c.Stdout = io.Discard
		c.Stderr = &stderr
	} else {
		c.Stdin = e.Stdin
		c.Stdout = e.Stdout
		c.Stderr = e.Stderr
	}

	if err := c.Run(); err != nil {
		return wrapExitError(cmd, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

// Output executes cmd and returns its stdout with surrounding whitespace
// removed. Stderr is captured for the error message.
func (e *Exec) Output(ctx context.Context, cmd Command) (string, error) {
	// #nosec G204 -- program names are fixed by the caller, not user input
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		return "", wrapExitError(cmd, strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// wrapExitError converts an os/exec error into an *ExitError, extracting
// the exit code when the process actually ran.
func wrapExitError(cmd Command, stderr string, err error) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ExitError{Command: cmd.String(), Code: code, Stderr: stderr, Err: err}
}

// ExitCode extracts the child exit code from err. It returns 0 for nil and
// -1 when err does not come from a finished process.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
