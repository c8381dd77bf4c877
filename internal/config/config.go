// Package config handles configuration loading and defaults for todo.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/todo/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"todo/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.todo)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage names the slot keys the task list is kept under
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Log configures the log file
	Log LogConfig `yaml:"log,omitempty"`
}

// StorageConfig defines where the task list is persisted.
type StorageConfig struct {
	// Key is the slot holding the task list. Changing the version suffix
	// starts a fresh list without touching the old one.
	Key string `yaml:"key,omitempty"`

	// FilterKey is the slot holding the filter when ux.remember_filter is on
	FilterKey string `yaml:"filter_key,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g,home"
	Bottom string `yaml:"bottom,omitempty"` // default: "G,end"

	AddTask        string `yaml:"add_task,omitempty"`        // default: "a,n"
	ToggleTask     string `yaml:"toggle_task,omitempty"`     // default: "space,d,enter"
	EditTask       string `yaml:"edit_task,omitempty"`       // default: "e"
	DeleteTask     string `yaml:"delete_task,omitempty"`     // default: "x,delete"
	ClearCompleted string `yaml:"clear_completed,omitempty"` // default: "C"

	FilterAll       string `yaml:"filter_all,omitempty"`       // default: "1"
	FilterActive    string `yaml:"filter_active,omitempty"`    // default: "2"
	FilterCompleted string `yaml:"filter_completed,omitempty"` // default: "3"
	NextFilter      string `yaml:"next_filter,omitempty"`      // default: "tab"

	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows a confirmation dialog before deleting a task
	ConfirmDeletions bool `yaml:"confirm_deletions"` // default: true

	// RememberFilter persists the filter selection across restarts
	RememberFilter bool `yaml:"remember_filter"` // default: false

	// MaxTextLength limits the input field while adding or editing
	MaxTextLength int `yaml:"max_text_length,omitempty"` // default: 200
}

// LogConfig defines logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"` // default: "warn"

	// File overrides the log file path (default: <data_dir>/todo.log)
	File string `yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Key:       "simple_todo_tasks_v1",
			FilterKey: "simple_todo_filter_v1",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			RememberFilter:   false,
			MaxTextLength:    200,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todo")
}

// Path returns the default path of the config file, or "" if no home
// directory can be determined.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path, merging with defaults. A missing
// file (or an empty path) yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans)
	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setString(&c.DataDir, other.DataDir)

	setString(&c.Storage.Key, other.Storage.Key)
	setString(&c.Storage.FilterKey, other.Storage.FilterKey)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Background, other.Theme.Background)
	setString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	setString(&k.Quit, o.Quit)
	setString(&k.Help, o.Help)
	setString(&k.Up, o.Up)
	setString(&k.Down, o.Down)
	setString(&k.Top, o.Top)
	setString(&k.Bottom, o.Bottom)
	setString(&k.AddTask, o.AddTask)
	setString(&k.ToggleTask, o.ToggleTask)
	setString(&k.EditTask, o.EditTask)
	setString(&k.DeleteTask, o.DeleteTask)
	setString(&k.ClearCompleted, o.ClearCompleted)
	setString(&k.FilterAll, o.FilterAll)
	setString(&k.FilterActive, o.FilterActive)
	setString(&k.FilterCompleted, o.FilterCompleted)
	setString(&k.NextFilter, o.NextFilter)
	setString(&k.Confirm, o.Confirm)
	setString(&k.Cancel, o.Cancel)

	if other.UX.MaxTextLength > 0 {
		c.UX.MaxTextLength = other.UX.MaxTextLength
	}

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.File, other.Log.File)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a parsed document we cannot tell "false" from "absent", so
	// booleans keep their defaults.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "remember_filter") {
		c.UX.RememberFilter = other.UX.RememberFilter
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return fmt.Errorf("no config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetLogFile returns the resolved log file path.
func (c *Config) GetLogFile() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(c.GetDataDir(), "todo.log")
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}

	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
