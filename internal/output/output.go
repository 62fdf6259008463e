// Package output prints user-facing CLI lines with lipgloss styling.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Writer receives every line. Commands point it at cobra's output so tests can
// capture it.
var Writer io.Writer = os.Stdout

func line(icon string, format string, args ...interface{}) {
	fmt.Fprint(Writer, icon)
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	line(successStyle.Render("✓ "), format, args...)
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	line(warningStyle.Render("⚠ "), format, args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	line(errorStyle.Render("✗ "), format, args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	line(infoStyle.Render("ℹ "), format, args...)
}

func Muted(format string, args ...interface{}) {
	fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a bold title underlined to its width.
func Section(title string) {
	fmt.Fprintln(Writer)
	fmt.Fprintln(Writer, primaryStyle.Render(title))
	fmt.Fprintln(Writer, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}
