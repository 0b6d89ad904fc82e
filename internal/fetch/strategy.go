package fetch

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/cli/go-gh/v2"
	"github.com/cli/go-gh/v2/pkg/repository"

	"github.com/mmr-tortoise/create-app/internal/git"
)

// Mechanism identifiers used in attempts and logs.
const (
	MechanismSSH   = "git-ssh"
	MechanismGH    = "gh"
	MechanismHTTPS = "git-https"
)

// ErrUnavailable is the cause recorded for a mechanism that was skipped
// because it cannot run in this environment.
var ErrUnavailable = errors.New("mechanism unavailable")

// Strategy is one way of obtaining the template.
type Strategy interface {
	// Name is the mechanism identifier.
	Name() string

	// Source is the locator the mechanism fetches from.
	Source() string

	// Attempt materializes the template at target, which does not exist
	// beforehand.
	Attempt(ctx context.Context, target string) error
}

// Availability is implemented by strategies that depend on something that
// may be missing (a locator, an optional binary). Unavailable strategies
// are skipped without running.
type Availability interface {
	Available() bool
}

// GitClone clones Source with git. It backs both the SSH and HTTPS
// mechanisms; only the locator differs.
type GitClone struct {
	name   string
	source string
	client *git.Client
	opts   git.CloneOptions
}

// NewSSHClone creates the SSH clone mechanism.
func NewSSHClone(client *git.Client, locator, ref string) *GitClone {
	return &GitClone{name: MechanismSSH, source: locator, client: client, opts: git.CloneOptions{Ref: ref}}
}

// NewHTTPSClone creates the HTTPS clone mechanism.
func NewHTTPSClone(client *git.Client, locator, ref string) *GitClone {
	return &GitClone{name: MechanismHTTPS, source: locator, client: client, opts: git.CloneOptions{Ref: ref}}
}

// Name implements Strategy.
func (g *GitClone) Name() string { return g.name }

// Source implements Strategy.
func (g *GitClone) Source() string { return g.source }

// Available reports whether a locator is configured.
func (g *GitClone) Available() bool { return g.source != "" }

// Attempt implements Strategy.
func (g *GitClone) Attempt(ctx context.Context, target string) error {
	return g.client.Clone(ctx, g.source, target, g.opts)
}

// GHClone delegates the clone to the GitHub CLI using an owner/repository
// identifier, forwarding the same shallow clone flags to git.
type GHClone struct {
	repo string
	opts git.CloneOptions

	// exec runs gh with inherited stdio; gh.ExecInteractive in production.
	exec func(ctx context.Context, args ...string) error

	// path locates gh; gh.Path in production.
	path func() (string, error)
}

// NewGHClone creates the companion CLI mechanism for repo ("owner/name",
// "host/owner/name" or a repository URL).
func NewGHClone(repo, ref string) *GHClone {
	return &GHClone{
		repo: repo,
		opts: git.CloneOptions{Ref: ref},
		exec: gh.ExecInteractive,
		path: gh.Path,
	}
}

// Name implements Strategy.
func (g *GHClone) Name() string { return MechanismGH }

// Source implements Strategy.
func (g *GHClone) Source() string { return g.repo }

// Available reports whether a repository is configured and gh is on PATH.
func (g *GHClone) Available() bool {
	if g.repo == "" {
		return false
	}
	_, err := g.path()
	return err == nil
}

// Attempt implements Strategy.
//
//	gh repo clone <host/owner/name> <target> -- --depth 1 --filter=blob:none [--branch <ref>]
func (g *GHClone) Attempt(ctx context.Context, target string) error {
	repo, err := repository.Parse(g.repo)
	if err != nil {
		return fmt.Errorf("invalid repository %q: %w", g.repo, err)
	}

	args := []string{"repo", "clone", fmt.Sprintf("%s/%s/%s", repo.Host, repo.Owner, repo.Name), target, "--"}
	args = append(args, git.CloneArgs(g.opts)...)
	return g.exec(ctx, args...)
}
