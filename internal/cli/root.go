// Package cli wires the todo commands: the interactive list (the root
// command) and scriptable subcommands operating on the same saved list.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/slot"
	"todo/internal/tasks"
	"todo/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	dataDir    string
	ephemeral  bool
	logLevel   string
}

// session is what a command works with once flags and config are resolved.
type session struct {
	cfg     *config.Config
	store   *tasks.Store
	log     *logging.Logger
	logFile *os.File
}

func (s *session) Close() {
	if s.logFile != nil {
		logging.Default().SetWriter(io.Discard)
		s.logFile.Close()
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A keyboard-driven task list for your terminal",
		Long: `todo keeps a single list of tasks. Run it without arguments for the
interactive list, or use the subcommands to script it.

Tasks are saved after every change under the data directory
(~/.todo by default).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			s.log.Info("starting", "version", Version, "tasks", s.store.Len())
			if err := ui.Run(s.store, ui.NewStyles(s.cfg), ui.NewAppConfig(s.cfg)); err != nil {
				return fmt.Errorf("run app: %w", err)
			}
			return nil
		},
	}
	root.Version = Version
	root.SetVersionTemplate("todo version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default "+config.Path()+")")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory holding the saved list")
	pf.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the list in memory only")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newEditCmd(opts),
		newRmCmd(opts),
		newClearCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// open loads config, sets up logging and opens the store.
func (o *options) open() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)

	s := &session{cfg: cfg}

	var sl slot.Slot
	if o.ephemeral {
		sl = slot.NewMemory()
	} else {
		file, err := slot.NewFile(cfg.GetDataDir())
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		sl = file

		// Logging is best-effort; the list works without it.
		if f, err := logging.OpenFile(cfg.GetLogFile()); err == nil {
			s.logFile = f
		}
	}
	s.log = logging.With("component", "cli")

	storeOpts := []tasks.Option{
		tasks.WithKey(cfg.Storage.Key),
		tasks.WithLogger(logging.With("component", "store")),
	}
	if cfg.UX.RememberFilter {
		storeOpts = append(storeOpts, tasks.WithRememberFilter(cfg.Storage.FilterKey))
	}
	s.store = tasks.Open(sl, storeOpts...)
	return s, nil
}
