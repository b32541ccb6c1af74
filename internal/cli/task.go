package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/pkg/domain"
)

// NewTaskCommand creates the task command group.
func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage project tasks",
	}
	cmd.AddCommand(newTaskAddCommand(rootOpts))
	cmd.AddCommand(newTaskListCommand(rootOpts))
	cmd.AddCommand(newTaskDoneCommand(rootOpts))
	return cmd
}

func newTaskAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		project     string
		description string
		worker      string
	)

	cmd := &cobra.Command{
		Use:           "add <title>",
		Short:         "Add a task to a project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			t := domain.Task{ProjectID: project, Title: args[0], Description: description}
			if worker != "" {
				t.WorkerID = &worker
			}
			created, err := svc.CreateTask(ctx, t)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added task %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project id (required)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&worker, "worker", "", "assigned worker id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskListCommand(rootOpts *RootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List tasks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			tasks, err := svc.ListTasks(ctx, project)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, tasks)
			}
			for _, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s\n", t.ID, t.Status, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "filter by project id")
	return cmd
}

func newTaskDoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "done <task-id>",
		Short:         "Mark a task done",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			done := domain.TaskDone
			t, ok, err := svc.UpdateTask(ctx, args[0], domain.TaskPatch{Status: &done})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no task with id %s\n", args[0])
				return nil
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done: %s\n", t.Title)
			return nil
		},
	}
}
