package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// readPassword takes the --password flag or the first line of stdin
func readPassword(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	password = strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func newLoginCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			resp, err := a.client.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d)\n", resp.User.Email, resp.User.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register EMAIL",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			user, err := a.client.Register(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d). Run \"taskctl login %s\" to log in.\n",
				user.Email, user.ID, user.Email)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			a.client.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), *user)
			return nil
		}),
	}
}

func newUsersCommand(a *app) *cobra.Command {
	var assignable bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			list := a.client.Users
			if assignable {
				list = a.client.AssignableUsers
			}

			users, err := list(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), users...)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&assignable, "assignable", false, "only users the current user can assign tasks to")
	return cmd
}
