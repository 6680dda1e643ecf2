package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pomodoro/internal/app"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (prompted when empty)")
}

// prompter reads answers line by line from the command's input.
type prompter struct {
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{out: cmd.OutOrStdout(), reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(opts *options) *cobra.Command {
	creds := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Task API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			email, err := p.ask("Email", creds.email)
			if err != nil {
				return err
			}
			password, err := p.ask("Password", creds.password)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				return ctrl.Login(cmd.Context(), email, password)
			})
		},
	}
	creds.bind(cmd)
	return cmd
}

func registerCmd(opts *options) *cobra.Command {
	creds := &credentialFlags{}
	var confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the Task API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			email, err := p.ask("Email", creds.email)
			if err != nil {
				return err
			}
			password, err := p.ask("Password", creds.password)
			if err != nil {
				return err
			}
			confirmed, err := p.ask("Confirm password", confirm)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				return ctrl.Register(cmd.Context(), email, password, confirmed)
			})
		},
	}
	creds.bind(cmd)
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password (prompted when empty)")
	return cmd
}

func logoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				ctrl.Logout()
				return nil
			})
		},
	}
}
