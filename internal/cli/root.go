// Package cli implements the taskctl command line client.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker-api/internal/client"
)

const defaultServer = "http://localhost:3000"

// app is shared by every subcommand of one invocation
type app struct {
	server      string
	sessionPath string
	client      *client.Client
	store       SessionStore
}

// NewRootCommand builds the taskctl command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "taskctl",
		Short: "Command line client for the task tracker API",
		Long: `taskctl talks to a task tracker server.

Log in once with "taskctl login"; the token is kept in a session file
($TASKCTL_SESSION, default ~/.taskctl/session.yaml) until "taskctl logout".`,
		SilenceUsage: true,
	}

	server := os.Getenv("TASKCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVar(&a.server, "server", server, "API base URL (env TASKCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (env TASKCTL_SESSION)")

	rootCmd.AddCommand(newLoginCommand(a))
	rootCmd.AddCommand(newRegisterCommand(a))
	rootCmd.AddCommand(newLogoutCommand(a))
	rootCmd.AddCommand(newWhoamiCommand(a))
	rootCmd.AddCommand(newUsersCommand(a))
	rootCmd.AddCommand(newTasksCommand(a))

	return rootCmd
}

func (a *app) init() error {
	if a.client != nil {
		return nil
	}

	path := a.sessionPath
	if path == "" {
		var err error
		if path, err = DefaultSessionPath(); err != nil {
			return err
		}
	}
	a.store = SessionStore{Path: path}

	session, err := a.store.Load()
	if err != nil {
		return err
	}
	a.client = client.New(a.server, session)
	return nil
}

// run loads the session, runs fn and persists whatever the session became,
// including a session cleared by a 401.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.init(); err != nil {
			return err
		}

		runErr := fn(cmd, args)
		if err := a.store.Save(a.client.Session()); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	}
}
