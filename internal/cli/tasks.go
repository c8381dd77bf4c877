package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/tasks"
	"todo/internal/view"
)

// errAmbiguousID is returned when an ID prefix matches more than one task.
var errAmbiguousID = errors.New("ambiguous task id")

// resolveID finds the task whose ID equals arg or, failing that, the single
// task whose ID starts with it. ok is false when nothing matches.
func resolveID(store *tasks.Store, arg string) (id string, ok bool, err error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", false, nil
	}
	if _, found := store.Get(arg); found {
		return arg, true, nil
	}

	var matches []string
	for _, t := range store.Tasks() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		return "", false, fmt.Errorf("%w %q matches %d tasks", errAmbiguousID, arg, len(matches))
	}
}

// withTask opens the store, resolves the ID argument and runs fn on it.
// Unknown IDs print a notice and succeed.
func withTask(cmd *cobra.Command, opts *options, arg string, fn func(store *tasks.Store, id string) error) error {
	s, err := opts.open()
	if err != nil {
		return err
	}
	defer s.Close()

	id, ok, err := resolveID(s.store, arg)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "No task with id %q\n", arg)
		return nil
	}
	return fn(s.store, id)
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task to the top of the list",
		Example: `  todo add Buy milk
  todo add "Call mum on Sunday"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := s.store.Add(strings.Join(args, " "))
			if errors.Is(err, tasks.ErrEmptyText) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", task.ID, task.Text)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the list",
		Long: `Print the tasks visible under a filter, newest first, followed by the
number of tasks left to do. Without --filter the saved filter is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			f := s.store.Filter()
			if cmd.Flags().Changed("filter") {
				if f, err = tasks.ParseFilter(filter); err != nil {
					return err
				}
			}
			printList(cmd.OutOrStdout(), view.Project(s.store.Tasks(), f))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	return cmd
}

func printList(w io.Writer, p view.Projection) {
	if len(p.Visible) == 0 {
		fmt.Fprintln(w, view.EmptyText(p.Filter, p.Total))
	}
	for _, t := range p.Visible {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s  %s\n", mark, t.ID, t.Text)
	}
	fmt.Fprintf(w, "\n%s\n", p.Summary())
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a task done, or not done again",
		Long:  "Flip a task's completion. ID may be any unique prefix of the task ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, opts, args[0], func(store *tasks.Store, id string) error {
				if err := store.Toggle(id); err != nil {
					return err
				}
				t, _ := store.Get(id)
				state := "open"
				if t.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", t.Text, state)
				return nil
			})
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace a task's text",
		Long:  "Replace a task's text. Blank text deletes the task.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, opts, args[0], func(store *tasks.Store, id string) error {
				text := strings.TrimSpace(strings.Join(args[1:], " "))
				if err := store.UpdateText(id, text); err != nil {
					return err
				}
				if text == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
				}
				return nil
			})
		},
	}
}

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, opts, args[0], func(store *tasks.Store, id string) error {
				t, _ := store.Get(id)
				if err := store.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.Text)
				return nil
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			before := s.store.Len()
			if err := s.store.ClearCompleted(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed\n", before-s.store.Len())
			return nil
		},
	}
}
