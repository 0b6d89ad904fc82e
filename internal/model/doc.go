// Package model defines the domain types and value objects for the
// create-app CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (BootstrapRequest, FetchAttempt, PackageManager) are
// transient and process-local; nothing is persisted beyond the files the
// pipeline writes into the new project directory.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
