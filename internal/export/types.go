// Package export renders the projected task list for use outside the
// terminal UI: Markdown for notes, JSON for scripts, PDF for printing.
package export

import (
	"time"

	"todo/internal/tasks"
	"todo/internal/view"
)

// Report is a snapshot of one projection.
type Report struct {
	Filter      string       `json:"filter"`
	Remaining   int          `json:"remaining"`
	Completed   int          `json:"completed"`
	Total       int          `json:"total"`
	Summary     string       `json:"summary"`
	Tasks       []tasks.Task `json:"tasks"`
	GeneratedAt time.Time    `json:"-"`
}

// NewReport captures p at the given time.
func NewReport(p view.Projection, now time.Time) *Report {
	ts := p.Visible
	if ts == nil {
		ts = []tasks.Task{}
	}
	return &Report{
		Filter:      p.Filter.String(),
		Remaining:   p.Remaining,
		Completed:   p.Completed(),
		Total:       p.Total,
		Summary:     p.Summary(),
		Tasks:       ts,
		GeneratedAt: now,
	}
}
