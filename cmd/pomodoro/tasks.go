package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/app"
	"pomodoro/internal/auth"
	"pomodoro/internal/model"
)

func tasksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the task list",
	}
	cmd.AddCommand(tasksListCmd(opts))
	cmd.AddCommand(tasksAddCmd(opts))
	cmd.AddCommand(tasksDoneCmd(opts))
	cmd.AddCommand(tasksRemoveCmd(opts))
	cmd.AddCommand(tasksActivateCmd(opts))
	cmd.AddCommand(tasksDeactivateCmd(opts))
	return cmd
}

// withTasks loads the task list before running fn.
func withTasks(cmd *cobra.Command, opts *options, fn func(ctrl *app.Controller) error) error {
	return withApp(cmd, opts, func(ctrl *app.Controller) error {
		if err := ctrl.Refresh(cmd.Context()); err != nil {
			if errors.Is(err, auth.ErrNotAuthenticated) {
				return fmt.Errorf("not logged in: run `pomodoro login` first")
			}
			return err
		}
		return fn(ctrl)
	})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

func tasksListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, active task first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(ctrl *app.Controller) error {
				list := ctrl.Tasks()
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
					return nil
				}
				activeID, hasActive := ctrl.ActiveTask()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tACTIVE\tDONE\tTITLE\tPOMODOROS\tDUE\tCREATED")
				for _, task := range list {
					active := ""
					if hasActive && task.ID == activeID {
						active = "*"
					}
					done := ""
					if task.IsCompleted {
						done = "x"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
						task.ID, active, done, task.Title, pomodoros(task), formatDue(task.DueAt),
						task.CreatedAt.Local().Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
}

func pomodoros(task model.Task) string {
	if task.EstimatedPomodoros == nil {
		return strconv.Itoa(task.CompletedPomodoros)
	}
	return fmt.Sprintf("%d/%d", task.CompletedPomodoros, *task.EstimatedPomodoros)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Local().Format("2006-01-02")
}

func tasksAddCmd(opts *options) *cobra.Command {
	var description, due string
	var estimate int
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := model.TaskFields{Title: strings.Join(args, " ")}
			if description != "" {
				fields.Description = &description
			}
			if estimate > 0 {
				fields.EstimatedPomodoros = &estimate
			}
			if due != "" {
				dueAt, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --due %q: want YYYY-MM-DD", due)
				}
				fields.DueAt = &dueAt
			}

			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				created, err := ctrl.AddTask(cmd.Context(), fields)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", created.ID, created.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&estimate, "estimate", "n", 0, "estimated pomodoros")
	return cmd
}

func tasksDoneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, opts, func(ctrl *app.Controller) error {
				if err := ctrl.ToggleTask(cmd.Context(), id); err != nil {
					return err
				}
				task, _ := ctrl.Task(id)
				state := "open"
				if task.IsCompleted {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s.\n", id, state)
				return nil
			})
		},
	}
}

func tasksRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, opts, func(ctrl *app.Controller) error {
				if err := ctrl.DeleteTask(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d.\n", id)
				return nil
			})
		},
	}
}

func tasksActivateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Credit completed focus sessions to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, opts, func(ctrl *app.Controller) error {
				if err := ctrl.SetActive(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now active.\n", id)
				return nil
			})
		},
	}
}

func tasksDeactivateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Stop crediting focus sessions to the active task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(ctrl *app.Controller) error {
				id, ok := ctrl.ActiveTask()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No active task.")
					return nil
				}
				ctrl.ClearActive(id)
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is no longer active.\n", id)
				return nil
			})
		},
	}
}
