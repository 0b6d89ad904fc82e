package pkgmanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/mmr-tortoise/create-app/internal/model"
	"github.com/mmr-tortoise/create-app/internal/project"
	"github.com/mmr-tortoise/create-app/internal/runner"
)

// packageManagerField is the manifest field that pins a manager version,
// e.g. "pnpm@9.1.0+sha512.abc".
const packageManagerField = "packageManager"

// Corepack activates the Node.js corepack shim for yarn and pnpm.
type Corepack struct {
	runner runner.Runner
}

// NewCorepack creates a Corepack bound to r.
func NewCorepack(r runner.Runner) *Corepack {
	return &Corepack{runner: r}
}

// Activate enables corepack for pm in dir. It does nothing for npm.
//
// When the manifest pins the same manager to a valid semantic version,
// that version is also prepared and activated. Both commands run quietly.
// Callers treat the returned error as informational: a missing or
// disabled corepack does not prevent a globally installed manager from
// working.
func (c *Corepack) Activate(ctx context.Context, pm model.PackageManager, dir string) error {
	if !pm.UsesCorepack() {
		return nil
	}

	if err := c.runner.Run(ctx, runner.Command{Dir: dir, Name: "corepack", Args: []string{"enable"}, Quiet: true}); err != nil {
		return fmt.Errorf("corepack enable: %w", err)
	}

	version, ok := pinnedVersion(dir, pm)
	if !ok {
		return nil
	}

	pinned := pm.String() + "@" + version
	if err := c.runner.Run(ctx, runner.Command{Dir: dir, Name: "corepack", Args: []string{"prepare", pinned, "--activate"}, Quiet: true}); err != nil {
		return fmt.Errorf("corepack prepare %s: %w", pinned, err)
	}
	return nil
}

// pinnedVersion returns the version from the manifest's packageManager
// field when it names pm. Hash suffixes ("+sha512...") are dropped.
func pinnedVersion(dir string, pm model.PackageManager) (string, bool) {
	value, found, err := project.ManifestField(dir, packageManagerField)
	if err != nil || !found {
		return "", false
	}

	name, version, ok := strings.Cut(value, "@")
	if !ok || name != pm.String() {
		return "", false
	}
	version, _, _ = strings.Cut(version, "+")

	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return "", false
	}
	return v.String(), true
}
