package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PackageManager identifies the JavaScript package manager used to install
// the new project's dependencies. The set is fixed: npm, yarn and pnpm.
type PackageManager string

const (
	// NPM is the package manager bundled with Node.js. It is the global
	// default when nothing else is detected or chosen.
	NPM PackageManager = "npm"

	// Yarn is the yarn package manager (classic or berry via corepack).
	Yarn PackageManager = "yarn"

	// PNPM is the pnpm package manager.
	PNPM PackageManager = "pnpm"
)

// PackageManagers lists every supported manager in menu order.
var PackageManagers = []PackageManager{NPM, Yarn, PNPM}

// String returns the string representation of PackageManager.
// This method satisfies the fmt.Stringer interface.
func (pm PackageManager) String() string {
	return string(pm)
}

// IsValid checks whether the PackageManager value is one of the
// supported managers.
func (pm PackageManager) IsValid() bool {
	switch pm {
	case NPM, Yarn, PNPM:
		return true
	default:
		return false
	}
}

// UsesCorepack reports whether the manager is distributed through the
// corepack version-pinning shim rather than bundled with Node.js.
func (pm PackageManager) UsesCorepack() bool {
	return pm == Yarn || pm == PNPM
}

// ParsePackageManager converts a string to a PackageManager.
// Returns an error if the string does not match any supported manager.
func ParsePackageManager(s string) (PackageManager, error) {
	pm := PackageManager(strings.ToLower(strings.TrimSpace(s)))
	if !pm.IsValid() {
		return "", fmt.Errorf("invalid package manager: %q (valid: npm, yarn, pnpm)", s)
	}
	return pm, nil
}

// BootstrapRequest describes a single run of the bootstrap pipeline.
//
// TargetPath is always absolute and derived from the working directory
// plus ProjectName. It must not exist when the pipeline starts.
type BootstrapRequest struct {
	// ProjectName is the user-supplied name of the new project. It is used
	// both as the directory name and as the manifest "name" field.
	ProjectName string `json:"projectName"`

	// TargetPath is the absolute path of the directory to create.
	TargetPath string `json:"targetPath"`
}

// NewRequest validates projectName and builds a BootstrapRequest rooted
// at cwd.
func NewRequest(cwd, projectName string) (BootstrapRequest, error) {
	if err := ValidateProjectName(projectName); err != nil {
		return BootstrapRequest{}, err
	}

	target, err := filepath.Abs(filepath.Join(cwd, projectName))
	if err != nil {
		return BootstrapRequest{}, fmt.Errorf("failed to resolve target path: %w", err)
	}

	return BootstrapRequest{ProjectName: projectName, TargetPath: target}, nil
}

// ValidateProjectName checks that name can be used as a single directory
// component below the working directory.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("invalid project name %q: must not start or end with whitespace", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid project name %q: must name a new directory", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid project name %q: must not contain path separators", name)
	}
	return nil
}

// FetchOutcome is the result of a single fetch mechanism attempt.
type FetchOutcome string

const (
	// FetchSucceeded means the mechanism produced the local copy and
	// terminated the chain.
	FetchSucceeded FetchOutcome = "success"

	// FetchFailed means the mechanism ran and failed; the chain continues.
	FetchFailed FetchOutcome = "failure"

	// FetchSkipped means the mechanism was not usable in this environment
	// (e.g., the companion CLI is not installed).
	FetchSkipped FetchOutcome = "skipped"
)

// String returns the string representation of FetchOutcome.
func (o FetchOutcome) String() string {
	return string(o)
}

// FetchAttempt records one step of the fetch strategy chain.
type FetchAttempt struct {
	// Mechanism is the strategy identifier (e.g., "git-ssh", "gh", "git-https").
	Mechanism string `json:"mechanism"`

	// Source is the locator the mechanism fetched from.
	Source string `json:"source"`

	// Outcome is what happened.
	Outcome FetchOutcome `json:"outcome"`

	// Err is the failure cause. Nil on success.
	Err error `json:"-"`
}

// String returns a human-readable representation of the attempt.
// Format: "mechanism (source): outcome"
func (a FetchAttempt) String() string {
	s := fmt.Sprintf("%s (%s): %s", a.Mechanism, a.Source, a.Outcome)
	if a.Err != nil {
		s += ": " + a.Err.Error()
	}
	return s
}

// ExitCode defines the process exit codes of the CLI.
// These codes allow scripts and CI systems to programmatically determine
// why a bootstrap run failed.
type ExitCode int

const (
	// ExitSuccess indicates the project was created successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates the project name argument was missing or invalid.
	ExitUsage ExitCode = 2

	// ExitTargetExists indicates the target directory already exists.
	ExitTargetExists ExitCode = 3

	// ExitEnvironment indicates a required tool is missing or the Node.js
	// runtime is too old.
	ExitEnvironment ExitCode = 4

	// ExitFetchFailed indicates every fetch mechanism failed.
	ExitFetchFailed ExitCode = 5

	// ExitInstallFailed indicates the package manager exited non-zero.
	ExitInstallFailed ExitCode = 6

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
