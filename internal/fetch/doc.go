// Package fetch obtains a shallow local copy of the template repository
// through an ordered chain of mechanisms, stopping at the first success.
//
// The default chain is:
//
//  1. git clone over SSH (key-based auth, no prompts)
//  2. gh repo clone, when the GitHub CLI is installed
//  3. git clone over HTTPS (credential manager / token)
//
// A mechanism's failure is logged and swallowed so the next one can run.
// Only exhaustion of the whole chain is reported, as an *ExhaustedError
// whose attempts feed the remediation text shown to the user.
package fetch
