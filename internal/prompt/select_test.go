package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managers = []Option{
	{Label: "npm (recommended)", Value: "npm"},
	{Label: "yarn", Value: "yarn"},
	{Label: "pnpm (fast & lightweight)", Value: "pnpm"},
}

// press feeds a sequence of keys to the model and returns the final state.
func press(m selectModel, keys ...tea.KeyMsg) selectModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(selectModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestSelectModel_Preselected verifies the cursor starts on the
// preselected value.
func TestSelectModel_Preselected(t *testing.T) {
	tests := []struct {
		preselected string
		wantCursor  int
	}{
		{"npm", 0},
		{"yarn", 1},
		{"pnpm", 2},
		{"bun", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.preselected, func(t *testing.T) {
			m := newSelectModel("Package manager?", managers, tt.preselected)
			assert.Equal(t, tt.wantCursor, m.cursor)
		})
	}
}

// TestSelectModel_Navigation verifies cursor movement stays in bounds.
func TestSelectModel_Navigation(t *testing.T) {
	m := newSelectModel("Package manager?", managers, "npm")

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor must not move above the first option")

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Equal(t, 2, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor, "cursor must not move below the last option")

	m = press(m, runes("k"))
	assert.Equal(t, 1, m.cursor)
}

// TestSelectModel_Enter verifies that enter confirms the highlighted
// option and quits the program.
func TestSelectModel_Enter(t *testing.T) {
	m := newSelectModel("Package manager?", managers, "yarn")
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "enter should quit")
	assert.Equal(t, tea.Quit(), cmd())

	value, err := next.(selectModel).result()
	require.NoError(t, err)
	assert.Equal(t, "pnpm", value)
	assert.Contains(t, next.View(), "pnpm (fast & lightweight)")
}

// TestSelectModel_Cancel verifies esc and ctrl+c report ErrCancelled.
func TestSelectModel_Cancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m := press(newSelectModel("Package manager?", managers, "npm"), key)

			_, err := m.result()
			assert.ErrorIs(t, err, ErrCancelled)
			assert.Contains(t, m.View(), "cancelled")
		})
	}
}

// TestSelectModel_IgnoresOtherMessages verifies non-key messages leave the
// state untouched.
func TestSelectModel_IgnoresOtherMessages(t *testing.T) {
	m := newSelectModel("Package manager?", managers, "yarn")
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.Equal(t, m, next.(selectModel))
}

// TestSelectModel_View verifies every option is listed and the cursor is
// marked.
func TestSelectModel_View(t *testing.T) {
	view := newSelectModel("Which package manager?", managers, "yarn").View()

	assert.Contains(t, view, "Which package manager?")
	assert.Contains(t, view, "  npm (recommended)")
	assert.Contains(t, view, "> yarn")
	assert.Contains(t, view, "  pnpm (fast & lightweight)")
}

// TestTerminal_Select drives a full program over in-memory streams.
func TestTerminal_Select(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\r"), &out)

	value, err := term.Select(context.Background(), "Package manager?", managers, "pnpm")
	require.NoError(t, err)
	assert.Equal(t, "pnpm", value)
}

func TestTerminal_SelectNoOptions(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	_, err := term.Select(context.Background(), "Package manager?", nil, "")
	assert.ErrorIs(t, err, ErrNoOptions)
}

// TestRunError verifies which program failures count as a cancellation.
func TestRunError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCancelled bool
	}{
		{"sigint", tea.ErrInterrupted, true},
		{"wrapped sigint", fmt.Errorf("program: %w", tea.ErrInterrupted), true},
		{"killed", tea.ErrProgramKilled, true},
		{"context cancelled", fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled), true},
		{"broken terminal", errors.New("could not open a new TTY"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runError(tt.err)

			require.Error(t, err)
			assert.Equal(t, tt.wantCancelled, errors.Is(err, ErrCancelled))
			assert.ErrorIs(t, err, tt.err, "the cause must stay inspectable")
		})
	}
}
