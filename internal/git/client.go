package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/create-app/internal/runner"
)

// ShallowDepth is the history depth of template clones. Only the latest
// commit is needed because the history is deleted right after cloning.
const ShallowDepth = 1

// CloneOptions controls a shallow clone.
type CloneOptions struct {
	// Ref is the branch or tag to check out. Empty uses the remote HEAD.
	Ref string

	// Depth limits the fetched history. Zero means ShallowDepth.
	Depth int
}

// Client runs git commands through a runner.Runner.
type Client struct {
	runner runner.Runner
	binary string
}

// NewClient creates a Client that invokes the "git" binary found on PATH.
func NewClient(r runner.Runner) *Client {
	return &Client{runner: r, binary: "git"}
}

// Version returns the output of `git --version`, e.g. "git version 2.43.0".
// It doubles as the invocability check used by the environment prober.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.runner.Output(ctx, runner.Command{Name: c.binary, Args: []string{"--version"}})
}

// CloneArgs builds the flags of a shallow, blob-less clone:
//
//	--depth <n> --filter=blob:none [--branch <ref>]
//
// Exposed so other fetch mechanisms (the gh companion CLI) can forward the
// same git flags.
func CloneArgs(opts CloneOptions) []string {
	depth := opts.Depth
	if depth <= 0 {
		depth = ShallowDepth
	}
	args := []string{"--depth", fmt.Sprint(depth), "--filter=blob:none"}
	if opts.Ref != "" {
		args = append(args, "--branch", opts.Ref)
	}
	return args
}

// Clone performs a shallow clone of source into target. Output is streamed
// to the user because clones over SSH may prompt for a passphrase.
func (c *Client) Clone(ctx context.Context, source, target string, opts CloneOptions) error {
	args := append([]string{"clone"}, CloneArgs(opts)...)
	args = append(args, source, target)
	return c.runner.Run(ctx, runner.Command{Name: c.binary, Args: args})
}

// Reinit creates a fresh history in dir: `git init`, `git add -A` and a
// single commit with message. The first failing step aborts the sequence
// and its error is returned; a typical cause is a missing user.name /
// user.email configuration.
func (c *Client) Reinit(ctx context.Context, dir, message string) error {
	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", message},
	}
	for _, args := range steps {
		if err := c.run(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}

// run executes a quiet git command in dir, prefixing the error with the
// git subcommand for diagnostics.
func (c *Client) run(ctx context.Context, dir string, args ...string) error {
	// -C makes git operate in dir without changing the process working
	// directory.
	fullArgs := append([]string{"-C", dir}, args...)
	if err := c.runner.Run(ctx, runner.Command{Name: c.binary, Args: fullArgs, Quiet: true}); err != nil {
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
