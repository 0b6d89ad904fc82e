// Package git provides the version-control operations used by the
// create-app pipeline: shallow clones of the template repository and the
// fresh history created for the new project.
//
// All Git operations are performed by invoking the git binary through
// internal/runner rather than using a Git library like go-git. This keeps
// authentication (SSH agents, credential managers) identical to what the
// user sees in their own terminal, which is exactly what the fetch
// fallback chain relies on.
package git
