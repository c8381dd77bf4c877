package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/view"
)

// Format names an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatPDF}

// ErrUnknownFormat is returned for format names that are not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name, case-insensitively. "md" is an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q (want markdown, json or pdf)", ErrUnknownFormat, s)
}

// Render writes p to w in format f.
func Render(w io.Writer, p view.Projection, f Format) error {
	report := NewReport(p, time.Now())

	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, ToMarkdown(report))
		return err
	case FormatJSON:
		data, err := ToJSON(report)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatPDF:
		return WritePDF(w, report)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
