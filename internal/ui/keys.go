// Package ui provides the terminal user interface for todo.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching and help text generation.
package ui

import (
	"strings"

	"todo/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys. "space" is accepted as
// a spelling of the space bar.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		switch trimmed {
		case "":
			continue
		case "space":
			result = append(result, " ", "space")
		default:
			result = append(result, trimmed)
		}
	}
	return result
}

// helpKey returns the label to show for a binding: its first key, with the
// space bar spelled out.
func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

func newBinding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey(keys), desc),
	)
}

// =============================================================================
// Global Keys
// =============================================================================

// GlobalKeyMap defines keys available whenever no text input is open.
// ForceQuit is the exception: it works in every mode and cannot be rebound.
type GlobalKeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	ForceQuit key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:      newBinding(parseKeys(cfg.Quit, "q", "ctrl+c"), "quit"),
		Help:      newBinding(parseKeys(cfg.Help, "?"), "help"),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// =============================================================================
// Navigation Keys
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     newBinding(parseKeys(cfg.Up, "k", "up"), "up"),
		Down:   newBinding(parseKeys(cfg.Down, "j", "down"), "down"),
		Top:    newBinding(parseKeys(cfg.Top, "g", "home"), "top"),
		Bottom: newBinding(parseKeys(cfg.Bottom, "G", "end"), "bottom"),
	}
}

// =============================================================================
// Input Keys
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: newBinding(parseKeys(cfg.Confirm, "enter"), "save"),
		Cancel:  newBinding(parseKeys(cfg.Cancel, "esc"), "cancel"),
	}
}

// =============================================================================
// Filter Keys
// =============================================================================

// FilterKeyMap selects which subset of the list is visible.
type FilterKeyMap struct {
	All       key.Binding
	Active    key.Binding
	Completed key.Binding
	Next      key.Binding
}

// NewFilterKeyMap creates filter key bindings from config.
func NewFilterKeyMap(cfg *config.KeysConfig) FilterKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return FilterKeyMap{
		All:       newBinding(parseKeys(cfg.FilterAll, "1"), "show all"),
		Active:    newBinding(parseKeys(cfg.FilterActive, "2"), "show active"),
		Completed: newBinding(parseKeys(cfg.FilterCompleted, "3"), "show completed"),
		Next:      newBinding(parseKeys(cfg.NextFilter, "tab"), "next filter"),
	}
}

// =============================================================================
// Task Keys
// =============================================================================

// TaskKeyMap defines keys for the task list.
type TaskKeyMap struct {
	Add            key.Binding
	Toggle         key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding
	NavigationKeyMap
}

// DefaultTaskKeyMap returns the default task key bindings.
func DefaultTaskKeyMap() TaskKeyMap {
	return NewTaskKeyMap(&config.KeysConfig{})
}

// NewTaskKeyMap creates task key bindings from config.
func NewTaskKeyMap(cfg *config.KeysConfig) TaskKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TaskKeyMap{
		Add:              newBinding(parseKeys(cfg.AddTask, "a", "n"), "add"),
		Toggle:           newBinding(parseKeys(cfg.ToggleTask, " ", "space", "d", "enter"), "toggle"),
		Edit:             newBinding(parseKeys(cfg.EditTask, "e"), "edit"),
		Delete:           newBinding(parseKeys(cfg.DeleteTask, "x", "delete"), "delete"),
		ClearCompleted:   newBinding(parseKeys(cfg.ClearCompleted, "C"), "clear completed"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the bindings shown in the help bar (implements help.KeyMap).
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.ClearCompleted}
}

// FullHelp returns the bindings shown in the help overlay (implements help.KeyMap).
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Edit, k.Delete, k.ClearCompleted},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
