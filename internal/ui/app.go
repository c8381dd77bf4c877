// Package ui provides the terminal user interface for todo.
// This file contains the main App model which owns the task pane and the
// overlays and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"todo/internal/config"
	"todo/internal/tasks"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
	MaxTextLength    int
}

// NewAppConfig extracts the UI settings from the loaded configuration.
func NewAppConfig(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:             &cfg.Keys,
		ConfirmDeletions: cfg.UX.ConfirmDeletions,
		MaxTextLength:    cfg.UX.MaxTextLength,
	}
}

// App is the main application model.
type App struct {
	store       *tasks.Store
	styles      *Styles
	config      *AppConfig
	taskPane    *TaskPane
	helpOverlay *HelpOverlay
	confirmDel  *confirmDeleteState
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Y coordinate where the task pane starts, for mouse hit-testing
	contentTop int
}

type confirmDeleteState struct {
	title string
	body  string
	id    string
}

// NewApp creates a new application on top of an opened store.
func NewApp(store *tasks.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:             &config.KeysConfig{},
			ConfirmDeletions: true,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	taskPane := NewTaskPaneWithKeys(store, styles, cfg.Keys)
	if cfg.MaxTextLength > 0 {
		taskPane.SetCharLimit(cfg.MaxTextLength)
	}

	return &App{
		store:       store,
		styles:      styles,
		config:      cfg,
		taskPane:    taskPane,
		helpOverlay: NewHelpOverlay(styles, cfg.Keys),
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
		contentTop:  1,
	}
}

// Init starts the status ticker.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		a.SetStatus(msg.text, msg.isErr)
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Time(msg).After(a.statusUntil) {
			a.clearStatus()
		}
		return a, tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)
	}

	// Anything else (cursor blink) belongs to the text input.
	return a, a.taskPane.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.quitting = true
		return a, tea.Quit
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			id := a.confirmDel.id
			a.confirmDel = nil
			return a, a.taskPane.remove(id)
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return a, nil
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	if !a.taskPane.IsEditing() {
		if a.config.ConfirmDeletions && key.Matches(msg, a.taskPane.keys.Delete) {
			task, ok := a.taskPane.Selected()
			if !ok {
				a.SetStatus("No task selected", true)
				return a, nil
			}
			a.confirmDel = &confirmDeleteState{
				title: "Delete task?",
				body:  truncateText(task.Text, 60),
				id:    task.ID,
			}
			return a, nil
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil
		}
	}

	return a, a.taskPane.Update(msg)
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.confirmDel != nil {
		if msg.Action == tea.MouseActionPress {
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return a, nil
	}

	// Any click closes help
	if a.showHelp {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return a, nil
	}

	if a.taskPane.IsEditing() || msg.Y < a.contentTop {
		return a, nil
	}

	local := msg
	local.Y = msg.Y - a.contentTop
	return a, a.taskPane.Update(local)
}

// updateLayout sizes the task pane to fill the terminal between the title
// bar and the help bar.
func (a *App) updateLayout() {
	paneWidth := max(20, a.width-2)  // borders
	paneHeight := max(8, a.height-4) // title bar, help bar, borders
	a.taskPane.SetSize(paneWidth, paneHeight)
	a.helpOverlay.SetSize(a.width, a.height)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.taskPane.View())
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

func (a *App) renderGoodbye() string {
	proj := a.taskPane.Projection()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	if proj.Total > 0 {
		b.WriteString(fmt.Sprintf("  %s, %d/%d done\n", proj.Summary(), proj.Completed(), proj.Total))
	}
	b.WriteString("\n")
	return b.String()
}

// renderTitleBar shows the app name, the remaining count and the filter.
func (a *App) renderTitleBar() string {
	proj := a.taskPane.Projection()

	title := a.styles.TitleStyle.Render(" todo ")
	stats := a.styles.StatLabelStyle.Render(proj.Summary())
	filter := a.styles.SubtitleStyle.Render("showing " + proj.Filter.String())

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(filter) + 2
	spacer := max(2, a.width-used)

	return title + "  " + stats + strings.Repeat(" ", spacer) + filter
}

// renderHelpBar shows the status line if one is set, otherwise hints for
// the current mode.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.taskPane.IsEditing() {
		in := a.taskPane.inputKeys
		return a.styles.RenderHelp(helpPairs(in.Confirm, in.Cancel)...)
	}

	k := a.taskPane.keys
	return a.styles.RenderHelp(helpPairs(
		k.Add, k.Toggle, k.Edit, k.Delete,
		a.taskPane.filterKeys.Next, k.ClearCompleted,
		a.keys.Help, a.keys.Quit,
	)...)
}

func helpPairs(bindings ...key.Binding) []string {
	pairs := make([]string, 0, 2*len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return pairs
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusErr = false
	a.statusUntil = time.Time{}
}

func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}

// Run starts the Bubble Tea program on the given store.
func Run(store *tasks.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
