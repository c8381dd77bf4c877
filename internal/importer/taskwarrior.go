package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"todo/internal/tasks"
)

// TaskwarriorImporter handles importing from `task export` output, either a
// JSON array or newline-delimited JSON.
type TaskwarriorImporter struct{}

type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Entry       string `json:"entry"`
	UUID        string `json:"uuid"`
}

// Name returns the importer name.
func (t *TaskwarriorImporter) Name() string {
	return "taskwarrior"
}

// Parse reads the export. Deleted tasks are skipped and completed ones
// keep their state. Items come back oldest entry first, so the newest task
// ends up on top.
func (t *TaskwarriorImporter) Parse(reader io.Reader) ([]tasks.Item, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input")
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	r := io.MultiReader(bytes.NewReader(prefix), br)
	var raw []taskwarriorTask
	if first == '[' {
		raw, err = parseTaskwarriorJSONArray(r)
	} else {
		raw, err = parseTaskwarriorNDJSON(r)
	}
	if err != nil {
		return nil, err
	}
	return itemsFromTaskwarrior(raw), nil
}

const maxTaskwarriorNDJSONLineBytes = 4 << 20 // 4MiB

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		if !isSpaceByte(b) {
			return prefix, b, nil
		}
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func parseTaskwarriorJSONArray(r io.Reader) ([]taskwarriorTask, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse JSON array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("parse JSON array: expected '['")
	}

	var out []taskwarriorTask
	for idx := 1; dec.More(); idx++ {
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("decode task %d: %w", idx, err)
		}
		out = append(out, tw)
	}

	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse JSON array: %w", err)
	}
	return out, nil
}

func parseTaskwarriorNDJSON(r io.Reader) ([]taskwarriorTask, error) {
	br := bufio.NewReader(r)
	var out []taskwarriorTask
	var lineNo int
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > maxTaskwarriorNDJSONLineBytes {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo+1, maxTaskwarriorNDJSONLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read NDJSON: %w", err)
		}
		if len(line) == 0 && err == io.EOF {
			break
		}

		lineNo++
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var tw taskwarriorTask
			if uerr := json.Unmarshal(line, &tw); uerr != nil {
				return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
			}
			out = append(out, tw)
		}

		if err == io.EOF {
			break
		}
	}

	if lineNo == 0 {
		return nil, errors.New("empty input")
	}
	return out, nil
}

func itemsFromTaskwarrior(raw []taskwarriorTask) []tasks.Item {
	type entry struct {
		item tasks.Item
		at   time.Time
	}
	var kept []entry
	for _, tw := range raw {
		if tw.Status == "deleted" {
			continue
		}
		text := strings.TrimSpace(tw.Description)
		if text == "" {
			continue
		}
		kept = append(kept, entry{
			item: tasks.Item{Text: text, Completed: tw.Status == "completed"},
			at:   parseTaskwarriorDate(tw.Entry),
		})
	}

	// Dated tasks are sorted oldest first among the slots dated tasks
	// occupy; tasks without an entry date keep their file position.
	var slots []int
	var dated []entry
	for i, e := range kept {
		if !e.at.IsZero() {
			slots = append(slots, i)
			dated = append(dated, e)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.Before(dated[j].at)
	})
	for k, i := range slots {
		kept[i] = dated[k]
	}

	items := make([]tasks.Item, len(kept))
	for i, e := range kept {
		items[i] = e.item
	}
	return items
}

// parseTaskwarriorDate parses Taskwarrior's ISO 8601 basic format
// (20140928T211124Z). Unparseable input yields the zero time.
func parseTaskwarriorDate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}
	}

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t
		}
	}
	return time.Time{}
}
