// Package view projects the task list onto what should be displayed. It owns
// no state: the same tasks and filter always produce the same projection.
package view

import (
	"fmt"

	"todo/internal/tasks"
)

// Projection is the visible part of the list plus the remaining count.
type Projection struct {
	Filter  tasks.Filter
	Visible []tasks.Task
	// Remaining counts incomplete tasks across the whole list, not just the
	// visible ones.
	Remaining int
	Total     int
}

// Project filters ts by f, preserving order.
func Project(ts []tasks.Task, f tasks.Filter) Projection {
	p := Projection{
		Filter:  f,
		Visible: make([]tasks.Task, 0, len(ts)),
		Total:   len(ts),
	}
	for _, t := range ts {
		if !t.Completed {
			p.Remaining++
		}
		if f.Match(t) {
			p.Visible = append(p.Visible, t)
		}
	}
	return p
}

// Completed returns the number of completed tasks in the whole list.
func (p Projection) Completed() int {
	return p.Total - p.Remaining
}

// Summary is the remaining-count line, e.g. "3 items left".
func (p Projection) Summary() string {
	return RemainingText(p.Remaining)
}

// RemainingText pluralizes the remaining count: "1 item left", otherwise
// "N items left".
func RemainingText(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

// EmptyText is the hint shown when nothing is visible under f.
func EmptyText(f tasks.Filter, total int) string {
	switch {
	case total == 0:
		return "Nothing to do yet."
	case f == tasks.FilterActive:
		return "No active tasks."
	case f == tasks.FilterCompleted:
		return "No completed tasks."
	default:
		return "Nothing to do yet."
	}
}
