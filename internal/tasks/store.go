package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todo/internal/logging"
	"todo/internal/slot"
)

const (
	// DefaultKey is the slot key holding the serialized task sequence.
	DefaultKey = "simple_todo_tasks_v1"
	// DefaultFilterKey holds the filter name when filter persistence is on.
	DefaultFilterKey = "simple_todo_filter_v1"
)

// ErrEmptyText is returned by Add when the text is blank after trimming.
// Nothing is stored or signaled in that case.
var ErrEmptyText = errors.New("task text is empty")

// Op names the kind of mutation in a Change.
type Op string

const (
	OpLoad           Op = "load"
	OpAdd            Op = "add"
	OpRemove         Op = "remove"
	OpToggle         Op = "toggle"
	OpUpdate         Op = "update"
	OpClearCompleted Op = "clear-completed"
	OpFilter         Op = "filter"
	OpImport         Op = "import"
)

// Change is delivered to subscribers after every operation; receiving one
// means the view must be re-projected.
type Change struct {
	Op Op
	ID string // empty for list-wide operations
}

// Store owns the task sequence and the active filter. It is not safe for
// concurrent use; every operation runs to completion on the caller's
// goroutine.
type Store struct {
	slot      slot.Slot
	key       string
	filterKey string
	remember  bool
	newID     func() (string, error)
	log       *logging.Logger

	tasks     []Task
	filter    Filter
	listeners []func(Change)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key holding the tasks.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithRememberFilter persists the filter under filterKey (DefaultFilterKey
// when empty) and restores it on load.
func WithRememberFilter(filterKey string) Option {
	return func(s *Store) {
		s.remember = true
		if filterKey != "" {
			s.filterKey = filterKey
		}
	}
}

// WithIDFunc replaces the ID generator.
func WithIDFunc(fn func() (string, error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger used for recovered load errors and failed saves.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates the store and loads any saved state from sl. It never fails:
// missing or unreadable data starts an empty list.
func Open(sl slot.Slot, opts ...Option) *Store {
	s := &Store{
		slot:      sl,
		key:       DefaultKey,
		filterKey: DefaultFilterKey,
		newID:     newUUID,
		log:       logging.Default(),
		tasks:     []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// load reads the saved sequence. Any failure is logged and treated as "no
// saved data".
func (s *Store) load() {
	s.tasks = s.readTasks()
	if s.remember {
		s.filter = s.readFilter()
	}
	s.notify(Change{Op: OpLoad})
}

func (s *Store) readTasks() []Task {
	log := s.log.With("key", s.key)

	data, ok, err := s.slot.Get(s.key)
	if err != nil {
		log.Warn("read saved tasks", "err", err)
		return []Task{}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []Task{}
	}

	var loaded []Task
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("saved tasks unreadable, starting empty", "err", err)
		if q, ok := s.slot.(slot.Quarantiner); ok {
			if dest, qerr := q.Quarantine(s.key); qerr != nil {
				log.Warn("quarantine failed", "err", qerr)
			} else if dest != "" {
				log.Warn("unreadable data moved aside", "path", dest)
			}
		}
		return []Task{}
	}
	return sanitize(loaded, log)
}

// sanitize drops records that would break the list invariants: blank text
// and repeated IDs (first occurrence wins).
func sanitize(in []Task, log *logging.Logger) []Task {
	out := make([]Task, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t.Text = normalizeText(t.Text)
		if t.ID == "" || t.Text == "" {
			log.Warn("dropping saved task without id or text", "id", t.ID)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			log.Warn("dropping saved task with duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *Store) readFilter() Filter {
	data, ok, err := s.slot.Get(s.filterKey)
	if err != nil || !ok {
		return FilterAll
	}
	var f Filter
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warn("saved filter unreadable", "key", s.filterKey, "err", err)
		return FilterAll
	}
	return f
}

func (s *Store) save() error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("serialize tasks: %w", err)
	}
	if err := s.slot.Set(s.key, data); err != nil {
		s.log.Error("save tasks", "key", s.key, "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// commit persists the sequence and then signals, so listeners always see
// the state that was written (or attempted).
func (s *Store) commit(c Change) error {
	err := s.save()
	s.notify(c)
	return err
}

// Subscribe registers fn to be called after every operation.
func (s *Store) Subscribe(fn func(Change)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *Store) notify(c Change) {
	s.log.Debug("task list changed", "op", string(c.Op), "id", c.ID)
	for _, fn := range s.listeners {
		fn(c)
	}
}

// Tasks returns a copy of the sequence, newest first.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Filter returns the active filter.
func (s *Store) Filter() Filter { return s.filter }

// Key returns the slot key the tasks are saved under.
func (s *Store) Key() string { return s.key }

// Get returns the task with the given ID.
func (s *Store) Get(id string) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if id != "" && s.index(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: no unique id after %d attempts", maxIDAttempts)
}

const maxIDAttempts = 8

// normalizeText trims surrounding space and replaces invalid UTF-8 with
// U+FFFD, which is what the JSON encoding would store anyway.
func normalizeText(text string) string {
	return strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
}

// Add inserts a new task at the front. Blank text returns ErrEmptyText and
// leaves the store untouched.
func (s *Store) Add(text string) (Task, error) {
	text = normalizeText(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	id, err := s.uniqueID()
	if err != nil {
		return Task{}, err
	}

	task := Task{ID: id, Text: text}
	s.tasks = append([]Task{task}, s.tasks...)
	return task, s.commit(Change{Op: OpAdd, ID: id})
}

// Remove deletes the task with the given ID. Unknown IDs are ignored.
func (s *Store) Remove(id string) error {
	if i := s.index(id); i >= 0 {
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	}
	return s.commit(Change{Op: OpRemove, ID: id})
}

// Toggle flips the completion flag of the task with the given ID. Unknown
// IDs are ignored.
func (s *Store) Toggle(id string) error {
	if i := s.index(id); i >= 0 {
		s.tasks[i].Completed = !s.tasks[i].Completed
	}
	return s.commit(Change{Op: OpToggle, ID: id})
}

// UpdateText replaces a task's text. Text that is blank after trimming
// deletes the task instead. Unknown IDs are ignored.
func (s *Store) UpdateText(id, text string) error {
	text = normalizeText(text)
	if text == "" {
		return s.Remove(id)
	}
	if i := s.index(id); i >= 0 {
		s.tasks[i].Text = text
	}
	return s.commit(Change{Op: OpUpdate, ID: id})
}

// ClearCompleted removes every completed task, keeping the others in order.
func (s *Store) ClearCompleted() error {
	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return s.commit(Change{Op: OpClearCompleted})
}

// SetFilter changes the visible subset. The filter is only written to the
// slot when the store was opened WithRememberFilter.
func (s *Store) SetFilter(f Filter) error {
	s.filter = f
	var err error
	if s.remember {
		data, _ := json.Marshal(f)
		if serr := s.slot.Set(s.filterKey, data); serr != nil {
			s.log.Error("save filter", "key", s.filterKey, "err", serr)
			err = fmt.Errorf("save filter: %w", serr)
		}
	}
	s.notify(Change{Op: OpFilter})
	return err
}

// Import inserts items as if each had been added in turn, so the last item
// ends up first. Blank items are skipped. It returns the number inserted.
func (s *Store) Import(items []Item) (int, error) {
	n := 0
	for _, it := range items {
		text := normalizeText(it.Text)
		if text == "" {
			continue
		}
		id, err := s.uniqueID()
		if err != nil {
			if n > 0 {
				return n, errors.Join(err, s.commit(Change{Op: OpImport}))
			}
			return 0, err
		}
		// Insert before generating the next ID so uniqueID sees it.
		s.tasks = append([]Task{{ID: id, Text: text, Completed: it.Completed}}, s.tasks...)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.commit(Change{Op: OpImport})
}
