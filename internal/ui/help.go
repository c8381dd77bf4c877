package ui

import (
	"strings"

	"todo/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders the keyboard shortcut screen from the active bindings,
// so custom keys from the config show up as configured.
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global  GlobalKeyMap
	tasks   TaskKeyMap
	filters FilterKeyMap
	input   InputKeyMap
}

// NewHelpOverlay creates a new help overlay.
func NewHelpOverlay(styles *Styles, keyCfg *config.KeysConfig) *HelpOverlay {
	return &HelpOverlay{
		styles:  styles,
		global:  NewGlobalKeyMap(keyCfg),
		tasks:   NewTaskKeyMap(keyCfg),
		filters: NewFilterKeyMap(keyCfg),
		input:   NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the overlay dimensions.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay.
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	section := func(b *strings.Builder, name string, bindings ...key.Binding) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kb := range bindings {
			hp := kb.Help()
			b.WriteString(keyStyle.Render(hp.Key) + descStyle.Render(hp.Desc) + "\n")
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("todo - Keyboard Shortcuts"))
	b.WriteString("\n")

	t := h.tasks
	section(&b, "Tasks", t.Add, t.Toggle, t.Edit, t.Delete, t.ClearCompleted)
	section(&b, "Navigation", t.Up, t.Down, t.Top, t.Bottom)
	section(&b, "Filters", h.filters.All, h.filters.Active, h.filters.Completed, h.filters.Next)
	section(&b, "Input Mode", h.input.Confirm, h.input.Cancel)
	section(&b, "Global", h.global.Help, h.global.Quit)

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Click a checkbox to toggle it, or a filter to select it."))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return RenderCentered(content, h.width, h.height)
}

// RenderCentered centers content in the terminal.
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
