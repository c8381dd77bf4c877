// Package importer reads task lists exported by other tools (Todoist,
// Taskwarrior) so they can be merged into the local list.
package importer

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/tasks"
)

// Importer parses one foreign export format.
type Importer interface {
	// Parse reads items in insertion order: the item meant to end up at the
	// top of the list comes last.
	Parse(reader io.Reader) ([]tasks.Item, error)

	// Name returns the importer name (e.g., "todoist", "taskwarrior").
	Name() string
}

// Result contains statistics about an import operation.
type Result struct {
	Parsed   int // items read from the input
	Imported int // items inserted into the store
}

// Import parses r with imp and inserts the items into store in a single
// save.
func Import(imp Importer, r io.Reader, store *tasks.Store) (*Result, error) {
	items, err := imp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s export: %w", imp.Name(), err)
	}
	n, err := store.Import(items)
	return &Result{Parsed: len(items), Imported: n}, err
}

// Get returns the importer for the given format, or nil if unsupported.
func Get(format string) Importer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "todoist":
		return &TodoistImporter{}
	case "taskwarrior", "tw":
		return &TaskwarriorImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}
