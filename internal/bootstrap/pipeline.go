// Package bootstrap runs the project creation pipeline end to end.
//
// A run is strictly sequential:
//
//	pre-flight -> probe -> fetch -> sanitize -> select -> activate -> install -> reinit
//
// Steps that only tidy up (history removal, manifest rename, corepack,
// git re-initialization) log and swallow their failures. Every other step
// aborts the run with a *model.CLIError carrying the exit code for that
// failure.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/create-app/internal/fetch"
	"github.com/mmr-tortoise/create-app/internal/model"
	"github.com/mmr-tortoise/create-app/internal/notify"
	"github.com/mmr-tortoise/create-app/internal/probe"
)

// Prober verifies the host has the tools the pipeline runs.
type Prober interface {
	Probe(ctx context.Context) (*probe.Report, error)
}

// Fetcher materializes the template at a target path.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*fetch.Result, error)
}

// Sanitizer strips template provenance from the fetched copy.
type Sanitizer interface {
	RemoveHistory(dir string) error
	RenameManifest(dir, name string) (bool, error)
}

// Selector chooses the package manager.
type Selector interface {
	Select(ctx context.Context, dir string) (model.PackageManager, error)
}

// Activator prepares the package manager shim.
type Activator interface {
	Activate(ctx context.Context, pm model.PackageManager, dir string) error
}

// Installer installs the project's dependencies.
type Installer interface {
	Install(ctx context.Context, pm model.PackageManager, dir string) error
}

// Reinitializer starts fresh version control for the project.
type Reinitializer interface {
	Reinit(ctx context.Context, dir, message string) error
}

// Dependencies are the collaborators of a Pipeline.
type Dependencies struct {
	Prober        Prober
	Fetcher       Fetcher
	Sanitizer     Sanitizer
	Selector      Selector
	Activator     Activator
	Installer     Installer
	Reinitializer Reinitializer
}

// Options tune optional pipeline behavior.
type Options struct {
	// Reinit enables the final git init/add/commit step.
	Reinit bool

	// CommitMessage is the message of the initial commit.
	CommitMessage string
}

// Result summarizes a successful run.
type Result struct {
	// Path is the absolute path of the new project.
	Path string

	// Mechanism is the fetch strategy that produced the template copy.
	Mechanism string

	// PackageManager is the manager that installed dependencies.
	PackageManager model.PackageManager

	// Renamed is true when the manifest name was rewritten.
	Renamed bool

	// Reinitialized is true when the fresh repository was committed.
	Reinitialized bool
}

// Pipeline wires the steps together.
type Pipeline struct {
	deps Dependencies
	opts Options
	out  io.Writer
	err  io.Writer
	log  logrus.FieldLogger
}

// New creates a Pipeline. Progress goes to out, diagnostics and
// remediation help to errOut.
func New(deps Dependencies, opts Options, out, errOut io.Writer, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{deps: deps, opts: opts, out: out, err: errOut, log: log}
}

// Run creates the project described by req.
func (p *Pipeline) Run(ctx context.Context, req model.BootstrapRequest) (*Result, error) {
	log := p.log.WithField("project", req.ProjectName)

	if err := preflight(req); err != nil {
		return nil, err
	}

	notify.Titlef(p.out, "🚀", "Creating %s", req.ProjectName)

	if err := p.probe(ctx); err != nil {
		return nil, err
	}

	fetched, err := p.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	result := &Result{Path: req.TargetPath, Mechanism: fetched.Mechanism}

	if err := p.deps.Sanitizer.RemoveHistory(req.TargetPath); err != nil {
		log.WithError(err).Warn("could not fully remove template history")
	}

	renamed, err := p.deps.Sanitizer.RenameManifest(req.TargetPath, req.ProjectName)
	switch {
	case err != nil:
		notify.Warningf(p.err, "package.json was left unchanged: %v", err)
		log.WithError(err).Warn("manifest rename failed")
	case !renamed:
		log.Debug("template has no package.json, rename skipped")
	}
	result.Renamed = renamed && err == nil

	pm, err := p.deps.Selector.Select(ctx, req.TargetPath)
	if err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return nil, cliErr
		}
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to choose a package manager", err)
	}
	result.PackageManager = pm

	if err := p.deps.Activator.Activate(ctx, pm, req.TargetPath); err != nil {
		log.WithError(err).Debug("corepack activation skipped")
	}

	notify.Activityf(p.out, "installing dependencies with %s", pm)
	if err := p.deps.Installer.Install(ctx, pm, req.TargetPath); err != nil {
		return nil, model.WrapCLIError(model.ExitInstallFailed, "dependency installation failed", err)
	}

	if p.opts.Reinit {
		if err := p.deps.Reinitializer.Reinit(ctx, req.TargetPath, p.opts.CommitMessage); err != nil {
			log.WithError(err).Warn("git re-initialization failed")
		} else {
			result.Reinitialized = true
		}
	}

	p.printNextSteps(req, pm)
	return result, nil
}

// preflight refuses to touch an existing path.
func preflight(req model.BootstrapRequest) error {
	_, err := os.Lstat(req.TargetPath)
	if err == nil {
		return model.NewCLIError(model.ExitTargetExists,
			fmt.Sprintf("folder already exists: %s", req.TargetPath))
	}
	if !errors.Is(err, os.ErrNotExist) {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("cannot inspect %s", req.TargetPath), err)
	}
	return nil
}

func (p *Pipeline) probe(ctx context.Context) error {
	report, err := p.deps.Prober.Probe(ctx)
	if err != nil {
		var envErr *probe.EnvironmentError
		if errors.As(err, &envErr) && envErr.Remediation != "" {
			notify.Block(p.err, envErr.Remediation)
		}
		return model.WrapCLIError(model.ExitEnvironment, "environment check failed", err)
	}

	p.log.WithFields(logrus.Fields{
		"node": report.NodeVersion,
		"git":  report.GitVersion,
		"gh":   report.CompanionCLI,
	}).Debug("environment ok")
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, req model.BootstrapRequest) (*fetch.Result, error) {
	notify.Activityf(p.out, "fetching template")

	fetched, err := p.deps.Fetcher.Fetch(ctx, req.TargetPath)
	if err != nil {
		var exhausted *fetch.ExhaustedError
		if errors.As(err, &exhausted) {
			notify.Block(p.err, fetch.Remediation(exhausted.Attempts))
		}
		return nil, model.WrapCLIError(model.ExitFetchFailed, "could not fetch the template", err)
	}

	notify.Successf(p.out, "template fetched via %s", fetched.Mechanism)
	return fetched, nil
}

func (p *Pipeline) printNextSteps(req model.BootstrapRequest, pm model.PackageManager) {
	notify.Successf(p.out, "Success! Created %s at %s", req.ProjectName, req.TargetPath)
	_, _ = fmt.Fprintf(p.out, "\nNext steps:\n  cd %s\n  %s run dev\n", req.ProjectName, pm)
}
