// Package pkgmanager chooses, activates and runs the JavaScript package
// manager for a new project.
//
// The flow is:
//  1. Detect infers a manager from the lockfile the template ships with
//  2. Selector turns the detection into a final choice, asking the user
//     when the session is interactive
//  3. Corepack enables the version shim for yarn and pnpm (best effort)
//  4. Installer runs exactly one install command
package pkgmanager

import (
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/create-app/internal/model"
)

// lockfile pairs a lockfile name with the manager that writes it.
type lockfile struct {
	name    string
	manager model.PackageManager
}

// lockfiles is ordered by detection priority. The first file present in
// the project root wins.
var lockfiles = []lockfile{
	{name: "pnpm-lock.yaml", manager: model.PNPM},
	{name: "yarn.lock", manager: model.Yarn},
	{name: "package-lock.json", manager: model.NPM},
}

// Detect inspects the top level of dir for a lockfile and returns the
// manager it implies. found is false when no known lockfile exists.
// Nested directories are not searched.
func Detect(dir string) (pm model.PackageManager, found bool) {
	for _, lf := range lockfiles {
		info, err := os.Stat(filepath.Join(dir, lf.name))
		if err == nil && !info.IsDir() {
			return lf.manager, true
		}
	}
	return "", false
}
