package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"todo/internal/tasks"
)

// TodoistImporter handles importing from Todoist CSV exports. Only rows of
// TYPE "task" are read; sections and notes are skipped.
type TodoistImporter struct{}

// Name returns the importer name.
func (t *TodoistImporter) Name() string {
	return "todoist"
}

// Parse reads the CSV. Todoist lists tasks top to bottom, so the rows are
// returned reversed to keep the first row on top after insertion.
func (t *TodoistImporter) Parse(reader io.Reader) ([]tasks.Item, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM (common in some exports)
		}
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"TYPE", "CONTENT"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	typeIdx, contentIdx := colIndex["TYPE"], colIndex["CONTENT"]

	var items []tasks.Item
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		if typeIdx >= len(record) || !strings.EqualFold(strings.TrimSpace(record[typeIdx]), "task") {
			continue
		}
		if contentIdx >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[contentIdx])
		if text == "" {
			continue
		}
		// Todoist exports only open tasks.
		items = append(items, tasks.Item{Text: text})
	}

	slices.Reverse(items)
	return items, nil
}
