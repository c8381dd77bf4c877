package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/tasks"
	"todo/internal/view"
)

func sample(f tasks.Filter) view.Projection {
	return view.Project([]tasks.Task{
		{ID: "3", Text: "Write report"},
		{ID: "2", Text: "Buy milk", Completed: true},
		{ID: "1", Text: "Call  mum\non Sunday"},
	}, f)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatMarkdown,
		"md":       FormatMarkdown,
		"Markdown": FormatMarkdown,
		"json":     FormatJSON,
		" PDF ":    FormatPDF,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(tasks.FilterAll), FormatMarkdown))

	assert.Equal(t, "# Tasks\n\n"+
		"- [ ] Write report\n"+
		"- [x] Buy milk\n"+
		"- [ ] Call mum on Sunday\n"+
		"\n2 items left\n", buf.String())
}

func TestRender_MarkdownFiltered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(tasks.FilterCompleted), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "# Tasks (completed)")
	assert.Contains(t, out, "- [x] Buy milk")
	assert.NotContains(t, out, "Write report")
	// The count covers the whole list, not just what is shown.
	assert.Contains(t, out, "2 items left")
}

func TestRender_MarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, view.Project(nil, tasks.FilterAll), FormatMarkdown))

	assert.Contains(t, buf.String(), "_No tasks._")
	assert.Contains(t, buf.String(), "0 items left")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(tasks.FilterActive), FormatJSON))

	var got struct {
		Filter    string       `json:"filter"`
		Remaining int          `json:"remaining"`
		Completed int          `json:"completed"`
		Total     int          `json:"total"`
		Summary   string       `json:"summary"`
		Tasks     []tasks.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "active", got.Filter)
	assert.Equal(t, 2, got.Remaining)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, "2 items left", got.Summary)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "3", got.Tasks[0].ID)
}

func TestRender_JSONEmptyHasArray(t *testing.T) {
	report := NewReport(view.Projection{}, time.Time{})
	data, err := ToJSON(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tasks": []`)
}

func TestRender_PDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(tasks.FilterAll), FormatPDF))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should be a PDF")
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sample(tasks.FilterAll), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}
