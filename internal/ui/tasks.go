package ui

import (
	"errors"
	"fmt"
	"strings"

	"todo/internal/config"
	"todo/internal/tasks"
	"todo/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdding
	inputEditing
)

// Pane-relative geometry used for mouse hit-testing. Row 0 is the top
// border, column 0 the left border followed by one column of padding.
const (
	paneLeft      = 2
	filterRow     = 2 // below the title
	listTop       = 4 // below the separator
	checkboxWidth = 4 // " [ ]"
)

// TaskPane handles the task list display and interactions. It re-projects
// the store whenever the store signals a change.
type TaskPane struct {
	store  *tasks.Store
	styles *Styles
	proj   view.Projection
	cursor int
	width  int
	height int

	mode   inputMode
	editID string
	input  textinput.Model

	// Key bindings
	keys       TaskKeyMap
	filterKeys FilterKeyMap
	inputKeys  InputKeyMap
}

// NewTaskPane creates a task pane with the default key bindings.
func NewTaskPane(store *tasks.Store, styles *Styles) *TaskPane {
	return NewTaskPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewTaskPaneWithKeys creates a task pane with custom key bindings.
func NewTaskPaneWithKeys(store *tasks.Store, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Width = 40
	ti.TextStyle = styles.InputTextStyle

	p := &TaskPane{
		store:      store,
		styles:     styles,
		input:      ti,
		keys:       NewTaskKeyMap(keyCfg),
		filterKeys: NewFilterKeyMap(keyCfg),
		inputKeys:  NewInputKeyMap(keyCfg),
	}
	store.Subscribe(func(tasks.Change) { p.Refresh() })
	p.Refresh()
	return p
}

// SetCharLimit caps the length of added or edited text. Zero or less means
// no limit.
func (p *TaskPane) SetCharLimit(n int) {
	p.input.CharLimit = max(n, 0)
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// IsEditing reports whether the text input is open.
func (p *TaskPane) IsEditing() bool {
	return p.mode != inputNone
}

// Projection returns what is currently displayed.
func (p *TaskPane) Projection() view.Projection {
	return p.proj
}

// Selected returns the task under the cursor.
func (p *TaskPane) Selected() (tasks.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.proj.Visible) {
		return tasks.Task{}, false
	}
	return p.proj.Visible[p.cursor], true
}

// Refresh re-projects the store, keeping the cursor on the same task when it
// is still visible.
func (p *TaskPane) Refresh() {
	prev, hadPrev := p.Selected()
	p.proj = view.Project(p.store.Tasks(), p.store.Filter())
	if hadPrev {
		p.selectID(prev.ID)
	}
	p.clampCursor()
}

func (p *TaskPane) selectID(id string) {
	for i, t := range p.proj.Visible {
		if t.ID == id {
			p.cursor = i
			return
		}
	}
}

func (p *TaskPane) clampCursor() {
	p.cursor = min(p.cursor, len(p.proj.Visible)-1)
	p.cursor = max(p.cursor, 0)
}

func (p *TaskPane) moveCursor(delta int) {
	p.cursor += delta
	p.clampCursor()
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	if p.mode != inputNone {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				return p.submit()
			case key.Matches(msg, p.inputKeys.Cancel):
				p.closeInput()
				return nil
			}
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *TaskPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)

	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)

	case key.Matches(msg, p.keys.Top):
		p.cursor = 0

	case key.Matches(msg, p.keys.Bottom):
		p.cursor = len(p.proj.Visible) - 1
		p.clampCursor()

	case key.Matches(msg, p.keys.Add):
		return p.openInput(inputAdding, "", "")

	case key.Matches(msg, p.keys.Edit):
		if t, ok := p.Selected(); ok {
			return p.openInput(inputEditing, t.ID, t.Text)
		}

	case key.Matches(msg, p.keys.Toggle):
		if t, ok := p.Selected(); ok {
			return p.toggle(t.ID)
		}

	case key.Matches(msg, p.keys.Delete):
		if t, ok := p.Selected(); ok {
			return p.remove(t.ID)
		}

	case key.Matches(msg, p.keys.ClearCompleted):
		return p.clearCompleted()

	case key.Matches(msg, p.filterKeys.All):
		return p.setFilter(tasks.FilterAll)

	case key.Matches(msg, p.filterKeys.Active):
		return p.setFilter(tasks.FilterActive)

	case key.Matches(msg, p.filterKeys.Completed):
		return p.setFilter(tasks.FilterCompleted)

	case key.Matches(msg, p.filterKeys.Next):
		return p.setFilter(p.proj.Filter.Next())
	}
	return nil
}

func (p *TaskPane) openInput(mode inputMode, id, text string) tea.Cmd {
	p.mode = mode
	p.editID = id
	p.input.SetValue(text)
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

func (p *TaskPane) closeInput() {
	p.mode = inputNone
	p.editID = ""
	p.input.Blur()
	p.input.Reset()
}

// submit commits the input. Blank text is dropped when adding and deletes
// the task when editing.
func (p *TaskPane) submit() tea.Cmd {
	mode, id, text := p.mode, p.editID, p.input.Value()
	p.closeInput()

	switch mode {
	case inputAdding:
		t, err := p.store.Add(text)
		if errors.Is(err, tasks.ErrEmptyText) {
			return nil
		}
		if t.ID != "" {
			p.selectID(t.ID)
		}
		return storeErrCmd("Save", err)
	case inputEditing:
		return storeErrCmd("Save", p.store.UpdateText(id, text))
	}
	return nil
}

func (p *TaskPane) toggle(id string) tea.Cmd {
	return storeErrCmd("Save", p.store.Toggle(id))
}

func (p *TaskPane) remove(id string) tea.Cmd {
	return storeErrCmd("Delete", p.store.Remove(id))
}

func (p *TaskPane) clearCompleted() tea.Cmd {
	n := p.proj.Completed()
	if err := p.store.ClearCompleted(); err != nil {
		return storeErrCmd("Clear", err)
	}
	if n == 0 {
		return nil
	}
	return statusCmd(fmt.Sprintf("Cleared %d completed", n), false)
}

func (p *TaskPane) setFilter(f tasks.Filter) tea.Cmd {
	p.cursor = 0
	return storeErrCmd("Save filter", p.store.SetFilter(f))
}

// handleMouse processes mouse events. Coordinates are relative to the
// pane's outer border.
func (p *TaskPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		p.moveCursor(1)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	col := msg.X - paneLeft
	switch {
	case msg.Y == filterRow:
		if f, ok := filterAt(col); ok {
			return p.setFilter(f)
		}

	case msg.Y >= listTop:
		start, end := p.window()
		i := start + msg.Y - listTop
		if i >= end {
			return nil
		}
		p.cursor = i
		if col >= 0 && col < checkboxWidth {
			return p.toggle(p.proj.Visible[i].ID)
		}
	}
	return nil
}

// listRows is how many tasks fit in the pane.
func (p *TaskPane) listRows() int {
	rows := p.height - 8 // borders, title, filter bar, separator, footer, input
	if rows < 3 {
		rows = 5
	}
	return rows
}

// window returns the slice of visible tasks that is on screen, scrolled so
// the cursor stays in view.
func (p *TaskPane) window() (start, end int) {
	rows := p.listRows()
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end = min(start+rows, len(p.proj.Visible))
	return start, end
}

// filterLabel is how f is drawn in the filter bar; the active filter is
// bracketed, the others padded to the same width.
func filterLabel(f tasks.Filter, active bool) string {
	if active {
		return "[" + f.Title() + "]"
	}
	return " " + f.Title() + " "
}

// filterAt maps a column of the filter bar to the filter drawn there.
func filterAt(col int) (tasks.Filter, bool) {
	x := 0
	for _, f := range tasks.Filters {
		w := runewidth.StringWidth(filterLabel(f, false))
		if col >= x && col < x+w {
			return f, true
		}
		x += w + 1
	}
	return tasks.FilterAll, false
}

func (p *TaskPane) renderFilterBar() string {
	parts := make([]string, 0, len(tasks.Filters))
	for _, f := range tasks.Filters {
		if f == p.proj.Filter {
			parts = append(parts, p.styles.FilterActiveStyle.Render(filterLabel(f, true)))
		} else {
			parts = append(parts, p.styles.FilterInactiveStyle.Render(filterLabel(f, false)))
		}
	}
	return strings.Join(parts, " ")
}

func (p *TaskPane) renderTask(i int) string {
	t := p.proj.Visible[i]

	checkbox := p.styles.TaskCheckboxPending
	if t.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}

	text := t.Text
	if p.width > 0 {
		// pane padding and borders, then " [ ] "
		avail := max(5, p.width-4-checkboxWidth-1)
		text = runewidth.Truncate(text, avail, "..")
	}

	if i == p.cursor && p.mode == inputNone {
		return p.styles.TaskSelectedStyle.Render(" " + checkbox + " " + text + " ")
	}
	style := p.styles.TaskPendingStyle
	if t.Completed {
		style = p.styles.TaskDoneStyle
	}
	return " " + checkbox + " " + style.Render(text)
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("TASKS"))
	b.WriteString("\n")
	b.WriteString(p.renderFilterBar())
	b.WriteString("\n")

	sepWidth := p.width - 2
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.SeparatorStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.proj.Visible) == 0 {
		hint := view.EmptyText(p.proj.Filter, p.proj.Total)
		if p.proj.Total == 0 {
			hint += fmt.Sprintf(" Press '%s' to add one.", p.keys.Add.Help().Key)
		}
		b.WriteString(p.styles.EmptyStyle.Render("  " + hint))
		b.WriteString("\n")
	} else {
		start, end := p.window()
		for i := start; i < end; i++ {
			b.WriteString(p.renderTask(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatValueStyle.Render(p.proj.Summary()))
	if done := p.proj.Completed(); done > 0 {
		b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf(" · %d completed", done)))
	}

	if p.mode != inputNone {
		prompt := "+ "
		if p.mode == inputEditing {
			prompt = "✎ "
		}
		b.WriteString("\n\n")
		b.WriteString(p.styles.InputPromptStyle.Render(prompt) + p.input.View())
	}

	return p.styles.PaneStyle.Width(p.width).Height(p.height).Render(b.String())
}
