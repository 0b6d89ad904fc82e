// Package config loads the create-app configuration.
//
// Values are layered, lowest precedence first:
//  1. built-in defaults (the canonical template repository, npm, Node 18)
//  2. <config dir>/config.yaml, if present
//  3. CREATE_APP_* environment variables (e.g. CREATE_APP_TEMPLATE_REF)
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the create-app configuration directory.
//
// Resolution:
//   - $CREATE_APP_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/create-app if set (respects XDG on any platform)
//   - %AppData%/create-app on Windows
//   - ~/.config/create-app on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CREATE_APP_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "create-app")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "create-app")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "create-app")
}

// File returns the path of the optional YAML config file.
func File() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
