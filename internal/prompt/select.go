// Package prompt implements the single-choice terminal menu used to pick
// a package manager.
//
// The menu is a small bubbletea program: arrow keys (or k/j) move the
// cursor, enter confirms, and esc or ctrl+c cancel. Cancellation is
// reported as ErrCancelled so callers can distinguish it from terminal
// failures.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user dismisses the menu without
// choosing.
var ErrCancelled = errors.New("selection cancelled")

// ErrNoOptions is returned when Select is called with an empty menu.
var ErrNoOptions = errors.New("no options to select from")

const (
	keyUp     = "up"
	keyDown   = "down"
	keyEnter  = "enter"
	keyEscape = "esc"
	keyCtrlC  = "ctrl+c"

	ansiCyan  = 6
	ansiGreen = 2
	ansiGray  = 8
)

// Option is one menu entry.
type Option struct {
	// Label is what the user sees, e.g. "pnpm (fast & lightweight)".
	Label string

	// Value is returned when the option is chosen, e.g. "pnpm".
	Value string
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(ansiCyan)).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(ansiGreen))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(ansiGray))
)

// selectModel is the bubbletea model behind Select.
type selectModel struct {
	message   string
	options   []Option
	cursor    int
	chosen    bool
	cancelled bool
}

func newSelectModel(message string, options []Option, preselected string) selectModel {
	m := selectModel{message: message, options: options}
	for i, opt := range options {
		if opt.Value == preselected {
			m.cursor = i
			break
		}
	}
	return m
}

// Init implements tea.Model.
func (m selectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case keyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case keyDown, "j", "tab":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case keyEnter:
		m.chosen = true
		return m, tea.Quit
	case keyEscape, keyCtrlC:
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m selectModel) View() string {
	var b strings.Builder

	b.WriteString(questionStyle.Render("? "+m.message) + " ")

	// Collapse to the answer once done so the scrollback stays tidy.
	if m.chosen {
		b.WriteString(answerStyle.Render(m.options[m.cursor].Label) + "\n")
		return b.String()
	}
	if m.cancelled {
		b.WriteString(hintStyle.Render("cancelled") + "\n")
		return b.String()
	}

	b.WriteString(hintStyle.Render("(use arrow keys, enter to confirm)") + "\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+opt.Label) + "\n")
			continue
		}
		b.WriteString("  " + opt.Label + "\n")
	}

	return b.String()
}

// result converts the final model state into Select's return values.
func (m selectModel) result() (string, error) {
	if m.cancelled || !m.chosen {
		return "", ErrCancelled
	}
	return m.options[m.cursor].Value, nil
}

// Terminal runs menus on a pair of terminal streams.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal reading keys from in and drawing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Select shows message with options and blocks until the user chooses.
// The option whose Value equals preselected starts under the cursor.
//
// Returns ErrCancelled when the user presses esc or ctrl+c, when the
// process receives SIGINT, or when ctx is cancelled while the menu is open.
func (t *Terminal) Select(ctx context.Context, message string, options []Option, preselected string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}

	program := tea.NewProgram(
		newSelectModel(message, options, preselected),
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)

	final, err := program.Run()
	if err != nil {
		return "", runError(err)
	}

	m, ok := final.(selectModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.result()
}

// runError maps a failed program run to ErrCancelled when the run was
// stopped from outside (signal, context, kill) rather than broken.
func runError(err error) error {
	if errors.Is(err, tea.ErrInterrupted) ||
		errors.Is(err, tea.ErrProgramKilled) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return fmt.Errorf("failed to run selection prompt: %w", err)
}
