package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"todo/internal/slot"
	"todo/internal/tasks"
)

func texts(items []tasks.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func assertTexts(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestTodoist_Parse tests parsing a Todoist CSV export.
func TestTodoist_Parse(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Buy groceries,4,1,,,2025-12-20,en,UTC
task,Review PR,2,1,,,,,
note,This is a note,,,,,,,
task,Call mom,1,1,,,,,`

	items, err := (&TodoistImporter{}).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	// Notes are skipped; the first row must be inserted last.
	assertTexts(t, texts(items), "Call mom", "Review PR", "Buy groceries")
	for _, it := range items {
		if it.Completed {
			t.Errorf("%q should be open", it.Text)
		}
	}
}

func TestTodoist_BOMHeader(t *testing.T) {
	csv := "\ufeffTYPE,CONTENT\ntask,With BOM\n"

	items, err := (&TodoistImporter{}).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	assertTexts(t, texts(items), "With BOM")
}

func TestTodoist_RaggedRows(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY
task,One,4,EXTRA,EXTRA2
task
task,,1
task,Two,1`

	items, err := (&TodoistImporter{}).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	assertTexts(t, texts(items), "Two", "One")
}

func TestTodoist_MissingColumn(t *testing.T) {
	_, err := (&TodoistImporter{}).Parse(strings.NewReader("CONTENT,PRIORITY\nBuy milk,1\n"))
	if err == nil || !strings.Contains(err.Error(), "TYPE") {
		t.Fatalf("Parse() error = %v, want missing TYPE column", err)
	}
}

func TestTodoist_EmptyInput(t *testing.T) {
	if _, err := (&TodoistImporter{}).Parse(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty input")
	}
}

// TestTaskwarrior_ParseJSON tests parsing a Taskwarrior JSON array.
func TestTaskwarrior_ParseJSON(t *testing.T) {
	json := `[
		{"description":"Buy milk","status":"pending","project":"Home","priority":"H"},
		{"description":"Review code","status":"completed","project":"Work"},
		{"description":"Deleted task","status":"deleted"},
		{"description":"   ","status":"pending"}
	]`

	items, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	assertTexts(t, texts(items), "Buy milk", "Review code")
	if items[0].Completed {
		t.Error("pending task should be open")
	}
	if !items[1].Completed {
		t.Error("completed task should stay completed")
	}
}

// TestTaskwarrior_ParseNDJSON tests parsing newline-delimited JSON.
func TestTaskwarrior_ParseNDJSON(t *testing.T) {
	ndjson := `{"description":"Task 1","status":"pending"}

{"description":"Task 2","status":"waiting"}
{"description":"Task 3","status":"completed"}`

	items, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(ndjson))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	assertTexts(t, texts(items), "Task 1", "Task 2", "Task 3")
	if items[1].Completed {
		t.Error("waiting task should be open")
	}
}

func TestTaskwarrior_SortsByEntry(t *testing.T) {
	json := `[
		{"description":"Newest","status":"pending","entry":"20251220T090000Z"},
		{"description":"Oldest","status":"pending","entry":"20250101T000000Z"},
		{"description":"Middle","status":"pending","entry":"2025-06-01"}
	]`

	items, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	assertTexts(t, texts(items), "Oldest", "Middle", "Newest")
}

func TestTaskwarrior_SortsAroundUndated(t *testing.T) {
	json := `[
		{"description":"Second","status":"pending","entry":"20250201T000000Z"},
		{"description":"Undated","status":"pending"},
		{"description":"First","status":"pending","entry":"20250101T000000Z"},
		{"description":"Bad date","status":"pending","entry":"soon"},
		{"description":"Third","status":"pending","entry":"20250301T000000Z"}
	]`

	items, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	assertTexts(t, texts(items), "First", "Undated", "Second", "Bad date", "Third")
}

// TestTaskwarrior_DateParsing tests Taskwarrior date format parsing.
func TestTaskwarrior_DateParsing(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"20251220T000000Z", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)},
		{"20251220T120000", time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)},
		{"2025-12-20T00:00:00Z", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)},
		{"2025-12-20", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"invalid", time.Time{}},
	}

	for _, tc := range tests {
		if got := parseTaskwarriorDate(tc.input); !got.Equal(tc.want) {
			t.Errorf("parseTaskwarriorDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// TestTaskwarrior_EmptyInput tests handling of empty input.
func TestTaskwarrior_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n\t"} {
		if _, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestTaskwarrior_LongNDJSONLine(t *testing.T) {
	desc := strings.Repeat("a", 70_000)
	ndjson := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n", desc)

	items, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(ndjson))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(items) != 1 || items[0].Text != desc {
		t.Fatalf("Expected one task with the long description, got %d", len(items))
	}
}

func TestTaskwarrior_InvalidNDJSONReturnsError(t *testing.T) {
	ndjson := `{"description":"Task 1","status":"pending"}
{invalid json}
{"description":"Task 2","status":"pending"}`

	_, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(ndjson))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("Parse() error = %v, want line 2 failure", err)
	}
}

func TestTaskwarrior_UnterminatedArray(t *testing.T) {
	_, err := (&TaskwarriorImporter{}).Parse(strings.NewReader(`[{"description":"x"}`))
	if err == nil {
		t.Fatal("Expected error for truncated array")
	}
}

// TestGet tests the importer lookup.
func TestGet(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"todoist", "todoist"},
		{" Todoist ", "todoist"},
		{"taskwarrior", "taskwarrior"},
		{"tw", "taskwarrior"},
		{"unknown", ""},
	}

	for _, tc := range tests {
		imp := Get(tc.format)
		switch {
		case tc.expected == "" && imp != nil:
			t.Errorf("Get(%q) should return nil", tc.format)
		case tc.expected != "" && imp == nil:
			t.Errorf("Get(%q) should not return nil", tc.format)
		case imp != nil && imp.Name() != tc.expected:
			t.Errorf("Get(%q).Name() = %q, want %q", tc.format, imp.Name(), tc.expected)
		}
	}
}

// TestSupportedFormats checks every listed format resolves.
func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 2 {
		t.Errorf("Expected 2 formats, got %d", len(formats))
	}
	for _, f := range formats {
		if Get(f) == nil {
			t.Errorf("Get(%q) = nil for a supported format", f)
		}
	}
}

// TestImport_Integration tests importing into a store.
func TestImport_Integration(t *testing.T) {
	store := tasks.Open(slot.NewMemory())
	if _, err := store.Add("Existing"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	csv := `TYPE,CONTENT,PRIORITY
task,Test task 1,1
task,Test task 2,4`

	result, err := Import(&TodoistImporter{}, strings.NewReader(csv), store)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Parsed != 2 || result.Imported != 2 {
		t.Errorf("result = %+v, want 2 parsed and imported", result)
	}

	var got []string
	for _, task := range store.Tasks() {
		got = append(got, task.Text)
	}
	assertTexts(t, got, "Test task 1", "Test task 2", "Existing")
}

func TestImport_ParseErrorLeavesStore(t *testing.T) {
	store := tasks.Open(slot.NewMemory())

	_, err := Import(&TaskwarriorImporter{}, strings.NewReader("{nope"), store)
	if err == nil || !strings.Contains(err.Error(), "taskwarrior") {
		t.Fatalf("Import() error = %v, want wrapped taskwarrior error", err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d tasks after failed import", store.Len())
	}
}
