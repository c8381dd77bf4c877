package logging

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New()
	l.SetLevel(level)
	l.SetOutput(log.New(&buf, "", 0))
	return l, &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug allowed at debug", LevelDebug, LevelDebug, true},
		{"info blocked at warn", LevelWarn, LevelInfo, false},
		{"warn allowed at warn", LevelWarn, LevelWarn, true},
		{"error allowed at warn", LevelWarn, LevelError, true},
		{"warn blocked at error", LevelError, LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.minLevel)
			switch tt.logLevel {
			case LevelDebug:
				logger.Debug("test message")
			case LevelInfo:
				logger.Info("test message")
			case LevelWarn:
				logger.Warn("test message")
			case LevelError:
				logger.Error("test message")
			}

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "test message")
				assert.Contains(t, buf.String(), tt.logLevel.String()+": ")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	logger.With("key", "simple_todo_tasks_v1").Warn("saved data unreadable",
		"err", errors.New("bad json"),
		"count", 3,
		"text", "buy milk",
	)

	assert.Equal(t,
		`WARN: saved data unreadable | count=3 err="bad json" key=simple_todo_tasks_v1 text="buy milk"`+"\n",
		buf.String())
}

func TestWithDoesNotMutateParent(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	_ = logger.With("op", "add")
	logger.Info("plain")
	assert.Equal(t, "INFO: plain\n", buf.String())
}

func TestWithFollowsParentOutput(t *testing.T) {
	logger, first := newBufferLogger(LevelDebug)
	child := logger.With("component", "store")

	var second bytes.Buffer
	logger.SetWriter(&second)
	child.Error("save tasks")

	assert.Empty(t, first.String(), "old writer must not be used after redirect")
	assert.Contains(t, second.String(), "ERROR: save tasks | component=store")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug": LevelDebug, "INFO": LevelInfo, "warn": LevelWarn,
		"warning": LevelWarn, "": LevelWarn, " error ": LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	prev := defaultLogger
	defaultLogger = New()
	t.Cleanup(func() { defaultLogger = prev })

	path := filepath.Join(t.TempDir(), "logs", "todo.log")
	f, err := OpenFile(path)
	require.NoError(t, err)

	Error("save failed", "op", "toggle")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ERROR: save failed | op=toggle")
}
