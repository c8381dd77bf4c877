package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/importer"
	"todo/internal/tasks"
)

// previewLimit caps the rows printed by a dry run.
const previewLimit = 20

func newImportCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import tasks from Todoist or Taskwarrior",
		Long: `Import tasks exported by another tool. Imported tasks go to the top of
the list, keeping the order they had in the source.

Formats:
  todoist      Todoist CSV backup (Settings > Backups). Notes are skipped.
  taskwarrior  Output of "task export", as a JSON array or one task per
               line. Deleted tasks are skipped, completed ones stay done.`,
		Example: `  todo import todoist ~/Downloads/Inbox.csv
  task export > tasks.json && todo import --dry-run taskwarrior tasks.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := importer.Get(args[0])
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					args[0], strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			if dryRun {
				items, err := imp.Parse(file)
				if err != nil {
					return fmt.Errorf("parse %s export: %w", imp.Name(), err)
				}
				printPreview(cmd.OutOrStdout(), items)
				return nil
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := importer.Import(imp, file, s.store)
			if err != nil {
				return err
			}
			s.log.Info("imported", "format", imp.Name(), "count", result.Imported)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", result.Imported)
			if skipped := result.Parsed - result.Imported; skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d blank items\n", skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}

// printPreview lists items top to bottom, the way they will appear.
func printPreview(w io.Writer, items []tasks.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No tasks found to import.")
		return
	}

	fmt.Fprintf(w, "Preview: %d tasks to import\n", len(items))
	shown := 0
	for i := len(items) - 1; i >= 0 && shown < previewLimit; i-- {
		mark := " "
		if items[i].Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, items[i].Text)
		shown++
	}
	if len(items) > previewLimit {
		fmt.Fprintf(w, "  ... and %d more\n", len(items)-previewLimit)
	}
	fmt.Fprintln(w, "\nRun without --dry-run to import.")
}
