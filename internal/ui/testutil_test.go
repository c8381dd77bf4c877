package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/slot"
	"todo/internal/tasks"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest disables colors so rendered output can be matched as text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStore opens a store over an in-memory slot with predictable
// IDs (t1, t2, ...).
func createTestStore(t *testing.T, sl slot.Slot) *tasks.Store {
	t.Helper()
	if sl == nil {
		sl = slot.NewMemory()
	}
	n := 0
	return tasks.Open(sl, tasks.WithIDFunc(func() (string, error) {
		n++
		return fmt.Sprintf("t%d", n), nil
	}))
}

// seedTasks adds texts in order, so the last one ends up first.
func seedTasks(t *testing.T, store *tasks.Store, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if _, err := store.Add(text); err != nil {
			t.Fatalf("Add(%q) error = %v", text, err)
		}
	}
}

func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newTestApp builds an app sized 80x30 over store.
func newTestApp(t *testing.T, store *tasks.Store, cfg *AppConfig) *App {
	t.Helper()
	setupTest(t)
	if cfg == nil {
		cfg = &AppConfig{Keys: &config.KeysConfig{}}
	}
	app := NewApp(store, createTestStyles(), cfg)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return app
}

// keyMsg builds the key message Bubble Tea would deliver for k.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key to the app and runs any status command that comes
// back, the way the Bubble Tea runtime would.
func press(app *App, keys ...string) {
	for _, k := range keys {
		_, cmd := app.Update(keyMsg(k))
		deliverStatus(app, cmd)
	}
}

// typeText types s into whatever has focus, one rune at a time.
func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func click(app *App, x, y int) {
	_, cmd := app.Update(tea.MouseMsg{
		X:      x,
		Y:      y,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	deliverStatus(app, cmd)
}

// deliverStatus feeds a statusMsg produced by cmd back into the app. Other
// commands (blink, quit) are ignored.
func deliverStatus(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(statusMsg); ok {
		app.Update(msg)
	}
}

func texts(ts []tasks.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q\n\n%s", w, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(output, u) {
			t.Errorf("output unexpectedly contains %q\n\n%s", u, output)
		}
	}
}

// failingSlot accepts reads but rejects every write.
type failingSlot struct {
	*slot.Memory
}

func (failingSlot) Set(string, []byte) error {
	return errors.New("disk full")
}
