package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/create-app/internal/runner"
	"github.com/mmr-tortoise/create-app/internal/runner/runnertest"
)

// requireGit skips tests that need a real git binary.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// setCommitterIdentity configures a git identity through the environment so
// commits work in CI environments without a global git configuration.
func setCommitterIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

// setupTemplateRepo creates a temporary repository with a package.json and
// a single commit, standing in for the remote template.
func setupTemplateRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"template"}`+"\n"), 0o644)
	require.NoError(t, err, "failed to create package.json")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

// runTestGit runs a git command in dir and fails the test on error.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// quietRunner returns a runner whose streamed output goes to buffers so
// test logs stay readable.
func quietRunner() *runner.Exec {
	return &runner.Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
}

// TestCloneArgs verifies the shallow clone flags.
func TestCloneArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--depth", "1", "--filter=blob:none", "--branch", "main"},
		CloneArgs(CloneOptions{Ref: "main"}))
	assert.Equal(t,
		[]string{"--depth", "3", "--filter=blob:none"},
		CloneArgs(CloneOptions{Depth: 3}))
}

// TestClone_CommandLine verifies the exact git invocation without running git.
func TestClone_CommandLine(t *testing.T) {
	fake := runnertest.NewFake()
	c := NewClient(fake)

	err := c.Clone(context.Background(), "git@github.com:o/r.git", "/tmp/app", CloneOptions{Ref: "main"})
	require.NoError(t, err)

	require.Len(t, fake.Commands, 1)
	assert.Equal(t, "git clone --depth 1 --filter=blob:none --branch main git@github.com:o/r.git /tmp/app", fake.Lines()[0])
	assert.False(t, fake.Commands[0].Quiet, "clone output should be streamed to the user")
}

// TestClone_LocalRepository clones a real repository over the file://
// transport and checks the working tree arrives.
func TestClone_LocalRepository(t *testing.T) {
	requireGit(t)
	src := setupTemplateRepo(t)
	target := filepath.Join(t.TempDir(), "my-app")

	c := NewClient(quietRunner())
	err := c.Clone(context.Background(), "file://"+filepath.ToSlash(src), target, CloneOptions{})
	require.NoError(t, err, "clone from a local repository should succeed")

	_, statErr := os.Stat(filepath.Join(target, "package.json"))
	assert.NoError(t, statErr, "package.json should be present in the clone")
	_, statErr = os.Stat(filepath.Join(target, ".git"))
	assert.NoError(t, statErr, "clone should contain a .git directory")
}

// TestClone_MissingSource verifies that cloning a nonexistent source fails.
func TestClone_MissingSource(t *testing.T) {
	requireGit(t)
	target := filepath.Join(t.TempDir(), "my-app")

	c := NewClient(quietRunner())
	err := c.Clone(context.Background(), filepath.Join(t.TempDir(), "missing"), target, CloneOptions{})
	assert.Error(t, err)
}

// TestVersion verifies that the git binary reports its version.
func TestVersion(t *testing.T) {
	requireGit(t)

	v, err := NewClient(runner.New()).Version(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v, "git version"), "unexpected version output %q", v)
}

// TestReinit creates a fresh history in a plain directory and verifies a
// single commit exists afterwards.
func TestReinit(t *testing.T) {
	requireGit(t)
	setCommitterIdentity(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("console.log(1)\n"), 0o644))

	err := NewClient(runner.New()).Reinit(context.Background(), dir, "Initial commit")
	require.NoError(t, err)

	count := strings.TrimSpace(runTestGit(t, dir, "rev-list", "--count", "HEAD"))
	assert.Equal(t, "1", count, "new history should contain exactly one commit")

	subject := strings.TrimSpace(runTestGit(t, dir, "log", "-1", "--format=%s"))
	assert.Equal(t, "Initial commit", subject)
}

// TestReinit_StopsAtFirstFailure verifies that a failing step aborts the
// sequence and is reported with the git subcommand.
func TestReinit_StopsAtFirstFailure(t *testing.T) {
	fake := runnertest.NewFake()
	fake.On("git -C /p add -A", "", assert.AnError)

	err := NewClient(fake).Reinit(context.Background(), "/p", "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git add -A")
	assert.Equal(t, []string{"git -C /p init", "git -C /p add -A"}, fake.Lines(),
		"commit must not run after add failed")
}
