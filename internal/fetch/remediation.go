package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmr-tortoise/create-app/internal/model"
)

// defaultSSHHost is used when no SSH locator was attempted.
const defaultSSHHost = "git@github.com"

// Remediation renders the help shown after the chain is exhausted: what
// was tried, then how to enable each mechanism.
func Remediation(attempts []model.FetchAttempt) string {
	var b strings.Builder

	b.WriteString("Cannot clone the template repository. It may be private, or your machine may not have access to it yet.\n")
	b.WriteString("\n")
	b.WriteString("Tried:\n")
	for i, a := range attempts {
		outcome := a.Outcome.String()
		if a.Outcome == model.FetchSkipped {
			outcome = "skipped (not available)"
		}
		fmt.Fprintf(&b, "  %d. %-10s %s: %s\n", i+1, a.Mechanism, a.Source, outcome)
	}
	b.WriteString("\n")
	b.WriteString("Set up any one of the following, then run the command again.\n")
	b.WriteString("\n")
	b.WriteString("SSH keys: add a public key to your account and check access with:\n")
	fmt.Fprintf(&b, "  ssh -T %s\n", sshHost(attempts))
	b.WriteString("\n")
	b.WriteString("GitHub CLI: install gh from https://cli.github.com and sign in with:\n")
	b.WriteString("  gh auth login\n")
	b.WriteString("\n")
	b.WriteString("HTTPS: let git read credentials from a credential manager or a personal access token, e.g.:\n")
	b.WriteString("  git config --global credential.helper manager")

	return b.String()
}

// sshHost derives "user@host" from the SSH attempt's locator. Both scp-like
// ("git@github.com:owner/repo.git") and URL ("ssh://git@host/owner/repo")
// forms are understood.
func sshHost(attempts []model.FetchAttempt) string {
	for _, a := range attempts {
		if a.Mechanism != MechanismSSH || a.Source == "" {
			continue
		}
		if strings.HasPrefix(a.Source, "ssh://") {
			u, err := url.Parse(a.Source)
			if err != nil || u.Hostname() == "" {
				continue
			}
			if u.User != nil && u.User.Username() != "" {
				return u.User.Username() + "@" + u.Hostname()
			}
			return u.Hostname()
		}
		if host, _, found := strings.Cut(a.Source, ":"); found && strings.Contains(host, "@") {
			return host
		}
	}
	return defaultSSHHost
}
