// Package slot provides a small synchronous key-value storage API, the local
// equivalent of a browser's localStorage. Each key holds one opaque payload.
package slot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"todo/internal/fsutil"
)

// ErrInvalidKey is returned for keys that are empty or would escape the
// storage directory.
var ErrInvalidKey = errors.New("invalid slot key")

// Slot is the storage contract used by the task store.
type Slot interface {
	// Get returns the payload stored under key. ok is false if the key has
	// never been written (or was deleted).
	Get(key string) (data []byte, ok bool, err error)
	// Set replaces the payload stored under key.
	Set(key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Quarantiner is implemented by slots that can set an unreadable payload
// aside instead of letting the next write overwrite it.
type Quarantiner interface {
	Quarantine(key string) (string, error)
}

const (
	dirPerm  os.FileMode = 0700
	filePerm os.FileMode = 0600
)

// File stores each key as <dir>/<key>.json.
type File struct {
	dir string
	now func() time.Time
}

// NewFile creates the directory if needed and returns a file-backed slot.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the slot files.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file backing key.
func (f *File) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get implements Slot.
func (f *File) Get(key string) ([]byte, bool, error) {
	path, err := f.Path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Slot.
func (f *File) Set(key string, data []byte) error {
	path, err := f.Path(key)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete implements Slot.
func (f *File) Delete(key string) error {
	path, err := f.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Quarantine implements Quarantiner.
func (f *File) Quarantine(key string) (string, error) {
	path, err := f.Path(key)
	if err != nil {
		return "", err
	}
	return fsutil.Quarantine(path, f.now())
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// Memory is an in-process Slot. The zero value is not usable; call NewMemory.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements Slot.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set implements Slot.
func (m *Memory) Set(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete implements Slot.
func (m *Memory) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
