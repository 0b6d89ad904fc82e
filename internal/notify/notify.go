// Package notify writes user-facing progress and status messages.
//
// Each message type has a symbol and color. Colors are disabled
// automatically by fatih/color when the output is not a terminal or
// NO_COLOR is set.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

// MessageType defines the type of notification message.
type MessageType int

// Message type constants.
// Each type determines the message styling (color and symbol).
const (
	// ErrorType represents an error message (red, with ✗ symbol).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, with ⚠ symbol).
	WarningType
	// ActivityType represents an activity/progress message (default color, with ► symbol).
	ActivityType
	// SuccessType represents a success message (green, with ✔ symbol).
	SuccessType
	// InfoType represents an informational message (blue, with ℹ symbol).
	InfoType
	// TitleType represents a title/header message (bold, with an emoji).
	TitleType
)

// defaultWrapWidth is used when the output is not a terminal.
const defaultWrapWidth = 80

// Message represents a notification message to be displayed to the user.
type Message struct {
	// Type determines the message styling (color, symbol).
	Type MessageType
	// Content is the main message text to display.
	Content string
	// Emoji is used only for TitleType messages.
	Emoji string
	// Writer is the output destination. If nil, defaults to os.Stdout.
	Writer io.Writer
	// Args are format arguments for Content if it contains format specifiers.
	Args []any
}

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message to the writer.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an activity/progress message to the writer.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message to the writer.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// Infof writes an informational message to the writer.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a title/header message with an emoji to the writer.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// WriteMessage writes a formatted message based on the message configuration.
//
// For simpler use cases, prefer the convenience functions: Errorf(),
// Warningf(), Activityf(), Successf(), Infof() and Titlef().
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	symbol, paint := style(msg)
	_, _ = fmt.Fprintln(writer, paint(symbol+" "+content))
}

// style returns the symbol and color function for a message.
func style(msg Message) (string, func(a ...any) string) {
	switch msg.Type {
	case ErrorType:
		return "✗", fcolor.New(fcolor.FgRed, fcolor.Bold).SprintFunc()
	case WarningType:
		return "⚠", fcolor.New(fcolor.FgYellow).SprintFunc()
	case SuccessType:
		return "✔", fcolor.New(fcolor.FgGreen).SprintFunc()
	case InfoType:
		return "ℹ", fcolor.New(fcolor.FgBlue).SprintFunc()
	case TitleType:
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "►"
		}
		return emoji, fcolor.New(fcolor.Bold).SprintFunc()
	default:
		return "►", fmt.Sprint
	}
}

// Block writes multi-line text (remediation help, next steps) verbatim
// after wrapping each paragraph line to the writer's terminal width.
// Indented lines (commands to copy) are never wrapped.
func Block(writer io.Writer, text string) {
	if writer == nil {
		writer = os.Stdout
	}
	_, _ = fmt.Fprintln(writer, Wrap(text, width(writer)))
}

// Wrap soft-wraps every non-indented line of text at limit columns.
func Wrap(text string, limit uint) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		lines[i] = wordwrap.WrapString(line, limit)
	}
	return strings.Join(lines, "\n")
}

// width returns the terminal width of writer, or defaultWrapWidth when the
// writer is not a terminal.
func width(writer io.Writer) uint {
	file, ok := writer.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return defaultWrapWidth
	}
	cols, _, err := term.GetSize(int(file.Fd()))
	if err != nil || cols <= 0 {
		return defaultWrapWidth
	}
	return uint(cols)
}
