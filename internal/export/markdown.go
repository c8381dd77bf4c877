package export

import (
	"fmt"
	"strings"
)

// ToMarkdown formats a report as a GitHub-style checklist.
func ToMarkdown(report *Report) string {
	var b strings.Builder

	b.WriteString("# Tasks")
	if report.Filter != "all" {
		fmt.Fprintf(&b, " (%s)", report.Filter)
	}
	b.WriteString("\n\n")

	if len(report.Tasks) == 0 {
		b.WriteString("_No tasks._\n")
	}
	for _, t := range report.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, singleLine(t.Text))
	}

	b.WriteString("\n")
	b.WriteString(report.Summary)
	b.WriteString("\n")
	return b.String()
}

// singleLine keeps a task on its own list item.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
