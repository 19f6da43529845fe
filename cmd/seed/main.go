package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/seed"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := seed.Options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo users and tasks",
		Long: `Deletes every task and user (unless --reset=false), then creates users
user1@example.com .. userN@example.com sharing one password, then tasks with a
random author and a different random assignee.

The database is configured the same way as the server (DB_* variables or CONFIG_FILE).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := database.Migrate(db); err != nil {
				return err
			}

			result, err := seed.Run(cmd.Context(), db, opts)
			if err != nil {
				return err
			}

			log.Printf("Seed finished: %d users and %d tasks created. Default password: %s",
				result.Users, result.Tasks, opts.Password)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", seed.DefaultUsers, "number of users to create")
	cmd.Flags().IntVar(&opts.Tasks, "tasks", seed.DefaultTasks, "number of tasks to create")
	cmd.Flags().StringVar(&opts.Password, "password", seed.DefaultPassword, "password shared by every seeded user")
	cmd.Flags().BoolVar(&opts.Reset, "reset", true, "delete all tasks and users first (--reset=false to append)")

	return cmd
}
