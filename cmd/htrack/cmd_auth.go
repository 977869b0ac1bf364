package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"htrack/internal/auth"
	"htrack/internal/i18n"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Logs in with username and password and stores the access and refresh
tokens in the session database.

The password may also come from HTRACK_PASSWORD or, when neither is set,
is read from the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("HTRACK_PASSWORD")
			}
			if password == "" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			if err := c.connect(ctx); err != nil {
				return err
			}
			user, err := c.flow.Login(ctx, username, password)
			if err != nil {
				return errors.New(auth.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.msgs.T(i18n.MsgLoginSuccess))
			fmt.Fprintln(cmd.OutOrStdout(), c.msgs.T(i18n.MsgLoggedInAs, user.Username))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var in auth.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.connect(ctx); err != nil {
				return err
			}
			if err := c.flow.Register(ctx, in); err != nil {
				return errors.New(auth.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.msgs.T(i18n.MsgRegisterSuccess))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&in.Password2, "password2", "", "Password confirmation")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.connect(ctx); err != nil {
				return err
			}
			if err := c.flow.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.msgs.T(i18n.MsgLogoutSuccess))
			return nil
		}),
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: c.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := c.requireSession(ctx); err != nil {
				return err
			}
			u := c.sess.User()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c.msgs.T(i18n.MsgLoggedInAs, u.Username))
			if u.Email != "" {
				fmt.Fprintln(out, u.Email)
			}
			if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
				fmt.Fprintln(out, name)
			}
			return nil
		}),
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
