package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireShell skips the test when no POSIX shell is available.
func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// TestCommand_String verifies the rendered command line used in logs.
func TestCommand_String(t *testing.T) {
	assert.Equal(t, "git clone --depth 1", Command{Name: "git", Args: []string{"clone", "--depth", "1"}}.String())
	assert.Equal(t, "yarn", Command{Name: "yarn"}.String())
}

// TestExec_Run_Streams verifies that non-quiet commands write to the
// runner's stdout.
func TestExec_Run_Streams(t *testing.T) {
	requireShell(t)

	var stdout, stderr bytes.Buffer
	e := &Exec{Stdout: &stdout, Stderr: &stderr}

	err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout.String())
}

// TestExec_Run_Quiet verifies that quiet commands do not write to the
// runner's streams but still report stderr on failure.
func TestExec_Run_Quiet(t *testing.T) {
	requireShell(t)

	var stdout, stderr bytes.Buffer
	e := &Exec{Stdout: &stdout, Stderr: &stderr}

	err := e.Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "echo out; echo broken >&2; exit 3"},
		Quiet: true,
	})
	require.Error(t, err)
	assert.Empty(t, stdout.String(), "quiet mode should not stream stdout")
	assert.Empty(t, stderr.String(), "quiet mode should not stream stderr")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "broken", exitErr.Stderr)
	assert.Equal(t, 3, ExitCode(err))
}

// TestExec_Output verifies that stdout is captured and trimmed.
func TestExec_Output(t *testing.T) {
	requireShell(t)

	out, err := New().Output(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo '  v20.11.0  '"}})
	require.NoError(t, err)
	assert.Equal(t, "v20.11.0", out)
}

// TestExec_MissingBinary verifies that a program absent from PATH yields an
// ExitError with code -1.
func TestExec_MissingBinary(t *testing.T) {
	err := New().Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-xyz failed")
}

// TestExitCode_Nil verifies the success value.
func TestExitCode_Nil(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, -1, ExitCode(errors.New("plain")))
}
