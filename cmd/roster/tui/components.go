package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
	OnConfirm   tea.Cmd
	OnCancel    tea.Cmd
}

// NewConfirmationDialog creates a dialog with "No" preselected.
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:   title,
		Message: message,
	}
}

// Update handles a key and returns the confirm or cancel command once the
// user decides.
func (d *ConfirmationDialog) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "y":
		return d.OnConfirm
	case "n", "esc":
		return d.OnCancel
	case "enter":
		if d.YesSelected {
			return d.OnConfirm
		}
		return d.OnCancel
	}
	return nil
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, button("Yes", d.YesSelected), "  ", button("No", !d.YesSelected)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "cancel")))

	return dialogStyle.Render(b.String())
}

type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageWarning
	MessageError
)

// MessageBox is a modal notice dismissed with enter or esc.
type MessageBox struct {
	Kind MessageKind
	Text string
}

func (m MessageBox) Title() string {
	switch m.Kind {
	case MessageSuccess:
		return "Success"
	case MessageWarning:
		return "Warning"
	default:
		return "Error"
	}
}

func (m MessageBox) View() string {
	style := successStyle
	switch m.Kind {
	case MessageWarning:
		style = warningStyle
	case MessageError:
		style = dangerStyle
	}

	body := style.Render(m.Title()) + "\n\n" +
		m.Text + "\n" +
		helpStyle.Render(FormatKey("enter", "ok"))
	return dialogStyle.BorderForeground(style.GetForeground()).Render(body)
}
