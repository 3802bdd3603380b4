package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gosuda/todo/internal/domain"
	"github.com/gosuda/todo/internal/render"
	"github.com/gosuda/todo/internal/service"
	"github.com/gosuda/todo/internal/session"
)

// app carries what every subcommand needs.
type app struct {
	svc        *service.Tasks
	interrupts <-chan os.Signal
	prompt     string
	logger     zerolog.Logger
}

// usageError marks malformed invocations: bad flags, wrong argument count,
// non-integer IDs, unknown enumerations.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs turns positional-argument failures into usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "In-memory todo tracker",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return usageErrorf("a command is required")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.doneCmd(),
		a.reopenCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.clearDoneCmd(),
		a.shellCmd("shell", "Start interactive shell mode"),
		a.shellCmd("menu", "Start interactive menu mode"),
	)

	return root
}

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.AddInput{Title: strings.Join(args, " ")}
			for name, dst := range map[string]**string{"due": &in.Due, "priority": &in.Priority, "tag": &in.Tags} {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*dst = &v
				}
			}

			t, err := a.svc.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Title)
			return nil
		},
	}

	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().String("priority", "", "Priority level (low, med, high)")
	cmd.Flags().String("tag", "", "Comma-separated tags")

	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var status, tag, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := domain.ParseStatusFilter(status)
			if err != nil {
				return &usageError{err: err}
			}
			sk, err := domain.ParseSortKey(sortKey)
			if err != nil {
				return &usageError{err: err}
			}

			tasks := a.svc.List(cmd.Context(), domain.ListQuery{Status: sf, Tag: tag, Sort: sk})
			fmt.Fprintln(cmd.OutOrStdout(), render.Table(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(domain.StatusFilterAll), "Filter by status (all, open, done)")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.SortCreated), "Sort order (created, due, priority)")

	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Detail(t))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.svc.MarkDone(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked task %d as done: %s\n", t.ID, t.Title)
			return nil
		},
	}
}

func (a *app) reopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a completed task",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.svc.Reopen(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened task %d: %s\n", t.ID, t.Title)
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long:  `Update a task. Pass "none" or "" to --due, --priority or --tag to clear that field.`,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var in service.UpdateInput
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				in.Title = domain.Set(v)
			}
			for name, dst := range map[string]*domain.Field[string]{"due": &in.Due, "priority": &in.Priority, "tag": &in.Tags} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = session.ClearableField(v)
				}
			}

			t, err := a.svc.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s\n", t.ID, t.Title)
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD), or none")
	cmd.Flags().String("priority", "", "New priority (low, med, high), or none")
	cmd.Flags().String("tag", "", "New comma-separated tags, or none")

	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func (a *app) clearDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-done",
		Short: "Clear all completed tasks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			n := a.svc.ClearDone(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
			return nil
		},
	}
}

func (a *app) shellCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := session.NewEngine(a.svc, cmd.OutOrStdout(),
				session.WithPrompt(a.prompt),
				session.WithLogger(a.logger),
			)
			in := session.NewConsoleReader(cmd.InOrStdin(), a.interrupts)
			if err := e.Run(cmd.Context(), in); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			return nil
		},
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usageErrorf("'%s' is not a valid task ID", raw)
	}
	return id, nil
}
