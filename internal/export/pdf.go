package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a report as a one-column A4 document.
func WritePDF(w io.Writer, report *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tasks", true)
	pdf.SetCreator("todo", true)
	if !report.GeneratedAt.IsZero() {
		pdf.SetCreationDate(report.GeneratedAt)
	}
	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	title := "Tasks"
	if report.Filter != "all" {
		title = fmt.Sprintf("Tasks (%s)", report.Filter)
	}
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(report.Tasks) == 0 {
		pdf.MultiCell(0, 6, "No tasks.", "0", "L", false)
	}
	for _, t := range report.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		pdf.MultiCell(0, 6, tr(mark+" "+singleLine(t.Text)), "0", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(40, 6, report.Summary)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
