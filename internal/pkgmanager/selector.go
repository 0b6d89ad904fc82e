package pkgmanager

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/create-app/internal/model"
	"github.com/mmr-tortoise/create-app/internal/notify"
	"github.com/mmr-tortoise/create-app/internal/prompt"
)

// selectMessage is the question shown by the interactive menu.
const selectMessage = "Which package manager do you want to use?"

// menu lists the choices in display order.
var menu = []prompt.Option{
	{Label: "npm (recommended)", Value: model.NPM.String()},
	{Label: "yarn", Value: model.Yarn.String()},
	{Label: "pnpm (fast & lightweight)", Value: model.PNPM.String()},
}

// Prompter asks the user to pick one option. *prompt.Terminal satisfies
// it; tests substitute a scripted implementation.
type Prompter interface {
	Select(ctx context.Context, message string, options []prompt.Option, preselected string) (string, error)
}

// Selector decides which package manager installs the project.
type Selector struct {
	terminal TerminalContext
	prompter Prompter
	fallback model.PackageManager
	out      io.Writer
	log      logrus.FieldLogger
}

// NewSelector creates a Selector.
//
// fallback is used when the template has no lockfile. prompter is only
// consulted when terminal.Interactive is true and may be nil otherwise.
func NewSelector(terminal TerminalContext, prompter Prompter, fallback model.PackageManager, out io.Writer, log logrus.FieldLogger) *Selector {
	if !fallback.IsValid() {
		fallback = model.NPM
	}
	return &Selector{
		terminal: terminal,
		prompter: prompter,
		fallback: fallback,
		out:      out,
		log:      log,
	}
}

// Select returns the package manager for the project in dir.
//
// The lockfile-detected manager (or the fallback) is the default. In an
// interactive session the user confirms or overrides it through the
// prompter; cancelling the prompt returns a CLIError with
// ExitUserCancelled. Any other prompt failure falls back to the default
// with a warning. In a non-interactive session the default is used
// without blocking.
func (s *Selector) Select(ctx context.Context, dir string) (model.PackageManager, error) {
	preselected, detected := Detect(dir)
	if !detected {
		preselected = s.fallback
	}
	s.log.WithFields(logrus.Fields{
		"detected": detected,
		"default":  preselected,
	}).Debug("package manager default resolved")

	if !s.terminal.Interactive || s.prompter == nil {
		if detected {
			notify.Infof(s.out, "non-interactive session, using %s (detected from lockfile)", preselected)
		} else {
			notify.Infof(s.out, "non-interactive session, using %s", preselected)
		}
		return preselected, nil
	}

	answer, err := s.prompter.Select(ctx, selectMessage, menu, preselected.String())
	if errors.Is(err, prompt.ErrCancelled) {
		return "", model.WrapCLIError(model.ExitUserCancelled, "package manager selection cancelled", err)
	}
	if err != nil {
		notify.Warningf(s.out, "could not show package manager prompt, using %s", preselected)
		s.log.WithError(err).Warn("package manager prompt failed")
		return preselected, nil
	}

	pm, err := model.ParsePackageManager(answer)
	if err != nil {
		s.log.WithError(err).Warn("prompt returned an unknown package manager")
		return preselected, nil
	}
	return pm, nil
}
