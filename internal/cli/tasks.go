package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker-api/internal/client"
)

func newTasksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, create, update and delete tasks",
	}

	cmd.AddCommand(newTasksListCommand(a))
	cmd.AddCommand(newTasksGetCommand(a))
	cmd.AddCommand(newTasksCreateCommand(a))
	cmd.AddCommand(newTasksUpdateCommand(a))
	cmd.AddCommand(newTasksDeleteCommand(a))
	cmd.AddCommand(newTasksSuggestCommand(a))

	return cmd
}

func parseTaskID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

func newTasksListCommand(a *app) *cobra.Command {
	var (
		params client.ListTasksParams
		mine   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if mine {
				user := a.client.Session().User()
				if user == nil {
					if !a.client.Session().IsAuthenticated() {
						return errors.New("--mine needs a logged in user")
					}
					var err error
					if user, err = a.client.Me(cmd.Context()); err != nil {
						return err
					}
				}
				params.AssigneeID = user.ID
			}

			list, err := a.client.ListTasks(cmd.Context(), params)
			if err != nil {
				return err
			}
			printTaskList(cmd.OutOrStdout(), list)
			return nil
		}),
	}

	f := cmd.Flags()
	f.IntVar(&params.Page, "page", 0, "page number (server default 1)")
	f.IntVar(&params.Limit, "limit", 0, "page size, 1-100 (server default 9)")
	f.StringVar(&params.Title, "title", "", "case-insensitive title substring")
	f.Uint64Var(&params.AuthorID, "author", 0, "author user id")
	f.Uint64Var(&params.AssigneeID, "assignee", 0, "assignee user id")
	f.StringVar(&params.DateFrom, "from", "", "created at or after (RFC 3339 or YYYY-MM-DD)")
	f.StringVar(&params.DateTo, "to", "", "created at or before (RFC 3339 or YYYY-MM-DD)")
	f.StringVar(&params.SortBy, "sort", "", "createdAt or title")
	f.StringVar(&params.Order, "order", "", "asc or desc")
	f.BoolVar(&mine, "mine", false, "only tasks assigned to the logged in user")
	cmd.MarkFlagsMutuallyExclusive("mine", "assignee")

	return cmd
}

func newTasksGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := a.client.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		}),
	}
}

func newTasksCreateCommand(a *app) *cobra.Command {
	var (
		title       string
		description string
		assignee    uint64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task; without --assignee the server picks another user at random",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			params := client.CreateTaskParams{Title: title}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}
			if cmd.Flags().Changed("assignee") {
				params.AssigneeID = &assignee
			}

			task, err := a.client.CreateTask(cmd.Context(), params)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().Uint64Var(&assignee, "assignee", 0, "assignee user id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTasksUpdateCommand(a *app) *cobra.Command {
	var (
		title            string
		description      string
		clearDescription bool
		assignee         uint64
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a task you authored",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			params := client.UpdateTaskParams{ClearDescription: clearDescription}
			if cmd.Flags().Changed("title") {
				params.Title = &title
			}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}
			if cmd.Flags().Changed("assignee") {
				params.AssigneeID = &assignee
			}

			task, err := a.client.UpdateTask(cmd.Context(), id, params)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "remove the description")
	cmd.Flags().Uint64Var(&assignee, "assignee", 0, "new assignee user id")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")

	return cmd
}

func newTasksDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task you authored",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := a.client.DeleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d (%s)\n", task.ID, task.Title)
			return nil
		}),
	}
}

func newTasksSuggestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest TEXT",
		Short: "Draft tasks from free text with the server's AI assistant",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			drafts, err := a.client.SuggestTasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDrafts(cmd.OutOrStdout(), drafts)
			return nil
		}),
	}
}
