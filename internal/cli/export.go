package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"todo/internal/export"
	"todo/internal/fsutil"
	"todo/internal/tasks"
	"todo/internal/view"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list as Markdown, JSON or PDF",
		Long: `Write the tasks visible under a filter. Markdown is the default and is
printed to stdout; PDF needs --output.`,
		Example: `  todo export
  todo export --filter active --format json
  todo export --format pdf --output tasks.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatPDF && output == "" {
				return fmt.Errorf("pdf export needs --output")
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			filt := s.store.Filter()
			if cmd.Flags().Changed("filter") {
				if filt, err = tasks.ParseFilter(filter); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if err := export.Render(&buf, view.Project(s.store.Tasks(), filt), f); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := fsutil.WriteFileAtomic(output, buf.Bytes(), 0600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			s.log.Info("exported", "format", f, "path", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "F", "markdown", "markdown, json or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	return cmd
}
