package ui

import (
	"testing"

	"todo/internal/config"
	"todo/internal/tasks"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen rows at 80x30: title bar, pane border, pane title, filter bar,
// separator, then the tasks. The pane content starts at column 2.
const (
	screenFilterRow = 3
	screenFirstTask = 5
)

// TestApp_MouseTogglesCheckbox verifies clicking a checkbox toggles the task.
func TestApp_MouseTogglesCheckbox(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A", "B")
	app := newTestApp(t, store, nil)

	// Second row is A.
	click(app, 3, screenFirstTask+1)

	if task, _ := store.Get("t1"); !task.Completed {
		t.Error("clicking A's checkbox should complete it")
	}
	if task, _ := store.Get("t2"); task.Completed {
		t.Error("B should be untouched")
	}
	if sel, _ := app.taskPane.Selected(); sel.ID != "t1" {
		t.Errorf("selected = %q, want t1", sel.ID)
	}
}

// TestApp_MouseClickOnTextSelects verifies clicking the text only moves the cursor.
func TestApp_MouseClickOnTextSelects(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A", "B")
	app := newTestApp(t, store, nil)

	click(app, 20, screenFirstTask+1)

	if app.taskPane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", app.taskPane.cursor)
	}
	if task, _ := store.Get("t1"); task.Completed {
		t.Error("clicking the text must not toggle")
	}
}

// TestApp_MouseClickBelowListIgnored verifies clicks past the last task do nothing.
func TestApp_MouseClickBelowListIgnored(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A")
	app := newTestApp(t, store, nil)

	click(app, 3, screenFirstTask+5)

	if task, _ := store.Get("t1"); task.Completed {
		t.Error("click below the list must not toggle")
	}
}

// TestApp_MouseSelectsFilter verifies clicking the filter bar changes the filter.
func TestApp_MouseSelectsFilter(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A")
	app := newTestApp(t, store, nil)

	tests := []struct {
		x    int
		want tasks.Filter
	}{
		{2 + 8, tasks.FilterActive},
		{2 + 20, tasks.FilterCompleted},
		{2 + 2, tasks.FilterAll},
	}
	for _, tt := range tests {
		click(app, tt.x, screenFilterRow)
		if store.Filter() != tt.want {
			t.Errorf("click at x=%d: filter = %v, want %v", tt.x, store.Filter(), tt.want)
		}
	}
}

// TestApp_MouseWheelScrolls verifies the wheel moves the cursor.
func TestApp_MouseWheelScrolls(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A", "B", "C")
	app := newTestApp(t, store, nil)

	wheel := func(b tea.MouseButton) {
		app.Update(tea.MouseMsg{X: 10, Y: 10, Button: b, Action: tea.MouseActionPress})
	}

	wheel(tea.MouseButtonWheelDown)
	wheel(tea.MouseButtonWheelDown)
	if app.taskPane.cursor != 2 {
		t.Errorf("cursor = %d, want 2", app.taskPane.cursor)
	}
	wheel(tea.MouseButtonWheelUp)
	if app.taskPane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", app.taskPane.cursor)
	}
}

// TestApp_MouseClosesHelp verifies clicking closes the help overlay.
func TestApp_MouseClosesHelp(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A")
	app := newTestApp(t, store, nil)
	app.showHelp = true

	click(app, 3, screenFirstTask)

	if app.showHelp {
		t.Error("click should close help")
	}
	if task, _ := store.Get("t1"); task.Completed {
		t.Error("the click that closes help must not reach the list")
	}
}

// TestApp_MouseCancelsConfirmation verifies a click dismisses the delete dialog.
func TestApp_MouseCancelsConfirmation(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A")
	app := newTestApp(t, store, &AppConfig{Keys: &config.KeysConfig{}, ConfirmDeletions: true})

	press(app, "x")
	click(app, 3, screenFirstTask)

	if app.confirmDel != nil {
		t.Error("click should cancel the dialog")
	}
	if store.Len() != 1 {
		t.Error("task should not be deleted")
	}
}

// TestApp_MouseIgnoredWhileEditing verifies clicks do not act behind the input.
func TestApp_MouseIgnoredWhileEditing(t *testing.T) {
	store := createTestStore(t, nil)
	seedTasks(t, store, "A")
	app := newTestApp(t, store, nil)

	press(app, "a")
	click(app, 3, screenFirstTask)

	if task, _ := store.Get("t1"); task.Completed {
		t.Error("click while typing must not toggle")
	}
}
