package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPackageManager_IsValid checks that only the three supported managers
// pass validation.
func TestPackageManager_IsValid(t *testing.T) {
	assert.True(t, NPM.IsValid())
	assert.True(t, Yarn.IsValid())
	assert.True(t, PNPM.IsValid())
	assert.False(t, PackageManager("bun").IsValid())
	assert.False(t, PackageManager("").IsValid())
}

// TestPackageManager_UsesCorepack verifies that only yarn and pnpm are
// routed through corepack.
func TestPackageManager_UsesCorepack(t *testing.T) {
	assert.False(t, NPM.UsesCorepack())
	assert.True(t, Yarn.UsesCorepack())
	assert.True(t, PNPM.UsesCorepack())
}

// TestParsePackageManager verifies string-to-manager conversion,
// including case normalization and error cases.
func TestParsePackageManager(t *testing.T) {
	tests := []struct {
		input    string
		expected PackageManager
		hasError bool
	}{
		{"npm", NPM, false},
		{"yarn", Yarn, false},
		{"pnpm", PNPM, false},
		{"PNPM", PNPM, false},  // case insensitive
		{" yarn ", Yarn, false}, // surrounding whitespace from env vars
		{"bun", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParsePackageManager(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestNewRequest verifies that the target path is the absolute join of the
// working directory and the project name.
func TestNewRequest(t *testing.T) {
	cwd := t.TempDir()

	req, err := NewRequest(cwd, "my-app")
	require.NoError(t, err)

	assert.Equal(t, "my-app", req.ProjectName)
	assert.Equal(t, filepath.Join(cwd, "my-app"), req.TargetPath)
	assert.True(t, filepath.IsAbs(req.TargetPath), "target path should be absolute")
}

// TestValidateProjectName checks accepted and rejected project names.
func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		hasError bool
	}{
		{"simple", "my-app", false},
		{"dotted", "my.app", false},
		{"scoped-looking underscore", "my_app", false},
		{"empty", "", true},
		{"current dir", ".", true},
		{"parent dir", "..", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"leading space", " app", true},
		{"trailing space", "app ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestFetchAttempt_String verifies the human-readable attempt format used
// in diagnostic logs.
func TestFetchAttempt_String(t *testing.T) {
	ok := FetchAttempt{Mechanism: "git-ssh", Source: "git@github.com:o/r.git", Outcome: FetchSucceeded}
	assert.Equal(t, "git-ssh (git@github.com:o/r.git): success", ok.String())

	failed := FetchAttempt{Mechanism: "git-https", Source: "https://x", Outcome: FetchFailed, Err: errors.New("boom")}
	assert.Equal(t, "git-https (https://x): failure: boom", failed.String())
}

// TestCLIError verifies error message formatting and unwrapping.
func TestCLIError(t *testing.T) {
	t.Run("without underlying error", func(t *testing.T) {
		err := NewCLIError(ExitTargetExists, "folder already exists")
		assert.Equal(t, "folder already exists", err.Error())
		assert.Equal(t, ExitTargetExists, err.Code)
		assert.Nil(t, err.Unwrap())
	})

	t.Run("with underlying error", func(t *testing.T) {
		underlying := errors.New("exit status 1")
		err := WrapCLIError(ExitInstallFailed, "dependency installation failed", underlying)

		assert.Equal(t, "dependency installation failed: exit status 1", err.Error())
		assert.True(t, errors.Is(err, underlying), "errors.Is should see the wrapped error")

		var cliErr *CLIError
		require.True(t, errors.As(error(err), &cliErr))
		assert.Equal(t, ExitInstallFailed, cliErr.Code)
	})
}
