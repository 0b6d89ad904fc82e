// Package probe checks that the external tools the bootstrap pipeline
// depends on are present before anything touches the filesystem.
//
// Checks, in order:
//  1. Node.js runtime: `node --version` must report at least the configured
//     major version (the template's tooling and every package manager run
//     on Node).
//  2. git: must be on PATH and invocable.
//  3. gh (companion CLI): optional, only reported.
//
// Failures of checks 1 and 2 are fatal to the pipeline; nothing is retried.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	gh "github.com/cli/go-gh/v2"

	"github.com/mmr-tortoise/create-app/internal/git"
	"github.com/mmr-tortoise/create-app/internal/runner"
)

// Sentinel errors for errors.Is checks on EnvironmentError.
var (
	// ErrMissingTool means a required binary is not on PATH or cannot run.
	ErrMissingTool = errors.New("missing tool")

	// ErrUnsupportedRuntime means the Node.js version is below the minimum.
	ErrUnsupportedRuntime = errors.New("unsupported runtime")
)

// EnvironmentError describes a failed probe together with the remediation
// shown to the user.
type EnvironmentError struct {
	// Kind is ErrMissingTool or ErrUnsupportedRuntime.
	Kind error

	// Tool is the binary that failed the check.
	Tool string

	// Detail explains what was found.
	Detail string

	// Remediation tells the user how to fix the environment.
	Remediation string
}

// Error satisfies the error interface.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Tool, e.Detail)
}

// Is lets errors.Is match the Kind sentinel.
func (e *EnvironmentError) Is(target error) bool {
	return target == e.Kind
}

// Report is what a successful probe found.
type Report struct {
	// NodeVersion is the parsed Node.js version.
	NodeVersion *semver.Version

	// GitVersion is the raw `git --version` output.
	GitVersion string

	// CompanionCLI is the path of the gh binary, empty when absent.
	CompanionCLI string
}

// Prober runs the environment checks.
type Prober struct {
	runner       runner.Runner
	git          *git.Client
	minNodeMajor uint64

	// lookPath resolves required binaries; exec.LookPath in production.
	lookPath func(file string) (string, error)

	// ghPath locates the optional companion CLI; gh.Path in production.
	ghPath func() (string, error)
}

// NewProber creates a Prober that requires at least Node.js minNodeMajor.
func NewProber(r runner.Runner, minNodeMajor uint64) *Prober {
	return &Prober{
		runner:       r,
		git:          git.NewClient(r),
		minNodeMajor: minNodeMajor,
		lookPath:     exec.LookPath,
		ghPath:       gh.Path,
	}
}

// Probe runs all checks and returns the first fatal failure as an
// *EnvironmentError.
func (p *Prober) Probe(ctx context.Context) (*Report, error) {
	report := &Report{}

	nodeVersion, err := p.checkNode(ctx)
	if err != nil {
		return nil, err
	}
	report.NodeVersion = nodeVersion

	gitVersion, err := p.checkGit(ctx)
	if err != nil {
		return nil, err
	}
	report.GitVersion = gitVersion

	// gh is optional; its absence only removes one fetch mechanism.
	if path, ghErr := p.ghPath(); ghErr == nil {
		report.CompanionCLI = path
	}

	return report, nil
}

// checkNode verifies the Node.js runtime version.
func (p *Prober) checkNode(ctx context.Context) (*semver.Version, error) {
	if _, err := p.lookPath("node"); err != nil {
		return nil, &EnvironmentError{
			Kind:        ErrMissingTool,
			Tool:        "node",
			Detail:      "not found on PATH",
			Remediation: fmt.Sprintf("Install Node.js %d or newer from https://nodejs.org and make sure `node` is on your PATH.", p.minNodeMajor),
		}
	}

	out, err := p.runner.Output(ctx, runner.Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return nil, &EnvironmentError{
			Kind:        ErrMissingTool,
			Tool:        "node",
			Detail:      err.Error(),
			Remediation: "Check that your Node.js installation works by running `node --version`.",
		}
	}

	// node prints "v20.11.0"; semver.NewVersion accepts the leading v.
	version, err := semver.NewVersion(strings.TrimSpace(out))
	if err != nil {
		return nil, &EnvironmentError{
			Kind:        ErrUnsupportedRuntime,
			Tool:        "node",
			Detail:      fmt.Sprintf("cannot parse version %q", out),
			Remediation: fmt.Sprintf("Install Node.js %d or newer from https://nodejs.org.", p.minNodeMajor),
		}
	}

	if version.Major() < p.minNodeMajor {
		return nil, &EnvironmentError{
			Kind:        ErrUnsupportedRuntime,
			Tool:        "node",
			Detail:      fmt.Sprintf("found %s, need major version %d or newer", version.Original(), p.minNodeMajor),
			Remediation: fmt.Sprintf("Upgrade Node.js to version %d or newer (for example with nvm: `nvm install %d`).", p.minNodeMajor, p.minNodeMajor),
		}
	}

	return version, nil
}

// checkGit verifies that git is on PATH and runs.
func (p *Prober) checkGit(ctx context.Context) (string, error) {
	remediation := "Install git from https://git-scm.com/downloads and make sure `git` is on your PATH."

	if _, err := p.lookPath("git"); err != nil {
		return "", &EnvironmentError{
			Kind:        ErrMissingTool,
			Tool:        "git",
			Detail:      "not found on PATH",
			Remediation: remediation,
		}
	}

	out, err := p.git.Version(ctx)
	if err != nil {
		return "", &EnvironmentError{
			Kind:        ErrMissingTool,
			Tool:        "git",
			Detail:      err.Error(),
			Remediation: remediation,
		}
	}
	return out, nil
}
