package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Store operations run synchronously inside Update. The messages below only
// carry their outcome back to the app for display.

// statusMsg asks the app to show a transient status line.
type statusMsg struct {
	text  string
	isErr bool
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// storeErrCmd reports a failed store operation. It returns nil for a nil err.
func storeErrCmd(op string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return statusCmd(op+" failed: "+err.Error(), true)
}

// tickMsg is sent periodically to expire status messages.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
