package pkgmanager

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/create-app/internal/model"
	"github.com/mmr-tortoise/create-app/internal/runner"
)

// InstallError reports a failed dependency install.
type InstallError struct {
	Manager model.PackageManager
	Err     error
}

// Error satisfies the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("%s install failed: %v", e.Manager, e.Err)
}

// Unwrap returns the underlying runner error.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// InstallCommand returns the single install invocation for pm.
func InstallCommand(pm model.PackageManager, dir string) (runner.Command, error) {
	cmd := runner.Command{Dir: dir, Name: pm.String()}
	switch pm {
	case model.NPM, model.PNPM:
		cmd.Args = []string{"install"}
	case model.Yarn:
		// Bare "yarn" installs in both classic and berry.
	default:
		return runner.Command{}, fmt.Errorf("unsupported package manager %q", pm)
	}
	return cmd, nil
}

// Installer runs the package manager's install command.
type Installer struct {
	runner runner.Runner
}

// NewInstaller creates an Installer bound to r.
func NewInstaller(r runner.Runner) *Installer {
	return &Installer{runner: r}
}

// Install runs one install for pm in dir, streaming the manager's output
// to the user. There is no fallback to another manager.
func (i *Installer) Install(ctx context.Context, pm model.PackageManager, dir string) error {
	cmd, err := InstallCommand(pm, dir)
	if err != nil {
		return &InstallError{Manager: pm, Err: err}
	}
	if err := i.runner.Run(ctx, cmd); err != nil {
		return &InstallError{Manager: pm, Err: err}
	}
	return nil
}
