package pkgmanager

import (
	"os"

	"golang.org/x/term"
)

// TerminalContext describes the session the selector runs in. It is
// built once by the CLI layer and passed in, so the selector itself never
// inspects global process state.
type TerminalContext struct {
	// Interactive is true when a human can answer prompts.
	Interactive bool
}

// DetectTerminal reports whether in is attached to a terminal.
// A nil file is treated as non-interactive.
func DetectTerminal(in *os.File) TerminalContext {
	if in == nil {
		return TerminalContext{}
	}
	return TerminalContext{Interactive: term.IsTerminal(int(in.Fd()))}
}
