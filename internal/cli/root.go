// Package cli implements the cobra-based command line of create-app.
//
// There is a single command, `create-app <project-name>`. It takes no
// flags of its own; behavior is tuned through the config file and
// CREATE_APP_* environment variables (see internal/config).
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/create-app/internal/bootstrap"
	"github.com/mmr-tortoise/create-app/internal/config"
	"github.com/mmr-tortoise/create-app/internal/fetch"
	"github.com/mmr-tortoise/create-app/internal/git"
	"github.com/mmr-tortoise/create-app/internal/model"
	"github.com/mmr-tortoise/create-app/internal/pkgmanager"
	"github.com/mmr-tortoise/create-app/internal/probe"
	"github.com/mmr-tortoise/create-app/internal/project"
	"github.com/mmr-tortoise/create-app/internal/prompt"
	"github.com/mmr-tortoise/create-app/internal/runner"
)

// usageLine is printed after every usage error.
const usageLine = "Usage: create-app <project-name>"

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the create-app command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "create-app <project-name>",
		Short: "Create a new project from the template repository",
		Long: `create-app clones the template repository into ./<project-name>, strips
its git history, renames the package, installs dependencies with the
package manager of your choice and starts a fresh git repository.

Configuration is read from ` + config.File() + `
and CREATE_APP_* environment variables.`,

		// Errors and usage are printed by Execute so the exit code and the
		// message format stay under our control.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		Args: projectNameArg,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0])
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.NewCLIError(model.ExitUsage, err.Error())
	})

	return rootCmd
}

// projectNameArg requires exactly one valid project name.
func projectNameArg(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return model.NewCLIError(model.ExitUsage, "missing project name")
	case len(args) > 1:
		return model.NewCLIError(model.ExitUsage, fmt.Sprintf("expected one project name, got %d arguments", len(args)))
	}
	if err := model.ValidateProjectName(args[0]); err != nil {
		return model.NewCLIError(model.ExitUsage, err.Error())
	}
	return nil
}

// runCreate loads configuration, assembles the pipeline and runs it.
func runCreate(cmd *cobra.Command, projectName string) error {
	cfg, err := config.Load(config.File())
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "cannot determine working directory", err)
	}
	req, err := model.NewRequest(cwd, projectName)
	if err != nil {
		return model.NewCLIError(model.ExitUsage, err.Error())
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	log := newLogger(errOut, cfg.LogLevel())

	pipeline := newPipeline(cfg, pkgmanager.DetectTerminal(os.Stdin), out, errOut, log)
	result, err := pipeline.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":      result.Path,
		"mechanism": result.Mechanism,
		"pm":        result.PackageManager,
	}).Debug("project created")
	return nil
}

// newLogger builds the diagnostic logger. Diagnostics never go to stdout.
func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log
}

// newPipeline wires the production collaborators.
func newPipeline(cfg *config.Config, terminal pkgmanager.TerminalContext, out, errOut io.Writer, log logrus.FieldLogger) *bootstrap.Pipeline {
	exec := runner.New()
	gitClient := git.NewClient(exec)

	chain := fetch.NewChain(log,
		fetch.NewSSHClone(gitClient, cfg.Template.SSH, cfg.Template.Ref),
		fetch.NewGHClone(cfg.Template.Repo, cfg.Template.Ref),
		fetch.NewHTTPSClone(gitClient, cfg.Template.HTTPS, cfg.Template.Ref),
	)

	return bootstrap.New(bootstrap.Dependencies{
		Prober:        probe.NewProber(exec, cfg.Runtime.MinNodeMajor),
		Fetcher:       chain,
		Sanitizer:     project.NewSanitizer(),
		Selector:      pkgmanager.NewSelector(terminal, prompt.NewTerminal(os.Stdin, out), cfg.DefaultPackageManager(), out, log),
		Activator:     pkgmanager.NewCorepack(exec),
		Installer:     pkgmanager.NewInstaller(exec),
		Reinitializer: gitClient,
	}, bootstrap.Options{
		Reinit:        cfg.Git.Reinit,
		CommitMessage: cfg.Git.CommitMessage,
	}, out, errOut, log)
}

// Execute runs the root command and exits with the code carried by the
// returned error. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(reportError(os.Stderr, err)))
	}
}

// reportError prints err and returns the process exit code for it.
// CLIError values carry their own code and usage errors are followed by
// the usage line; anything else is a general error.
func reportError(w io.Writer, err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(w, cliErr.Message, cliErr.Err)
		if cliErr.Code == model.ExitUsage {
			_, _ = fmt.Fprintln(w, usageLine)
		}
		return cliErr.Code
	}

	printError(w, err.Error(), nil)
	return model.ExitGeneralError
}

// printError writes "Error: <message>[: <cause>]" to w.
func printError(w io.Writer, message string, underlying error) {
	if underlying != nil {
		_, _ = fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", message)
}
