package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Rebornbugkiller/tick/api"
	"github.com/Rebornbugkiller/tick/internal/validation"
	"github.com/Rebornbugkiller/tick/session"
	"github.com/Rebornbugkiller/tick/todo"
)

// login
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in to the todo server",
	Long: `Sign in to the todo server and save the session.

The password is read from the terminal, or from stdin when stdin is not
a terminal. The session token is stored in ~/.local/state/tick and
reused by later commands until it expires or 'tick logout' is run.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

// logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// register
var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account on the todo server",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

var registerPhone string

// whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)

	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "Phone number for the new account")
	_ = registerCmd.MarkFlagRequired("phone")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := args[0]
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	app, err := newApp(todo.StdioPrompter{})
	if err != nil {
		return err
	}

	token, err := app.client.LogIn(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	app.sess.Login(token.AccessToken, session.User{Username: username})

	user, err := app.client.Me(cmd.Context())
	if err != nil {
		return err
	}
	app.sess.SetUser(*user)

	if err := app.stateStore.SaveSession(app.serverURL, token.AccessToken, user.Username, user.ID); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp(todo.StdioPrompter{})
	if err != nil {
		return err
	}

	if _, ok := app.sess.Token(); !ok {
		fmt.Println("Not signed in.")
		return nil
	}

	if err := app.forgetSession(); err != nil {
		return err
	}

	fmt.Println("Signed out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	username := args[0]
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidatePhoneNumber(registerPhone); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	app, err := newApp(todo.StdioPrompter{})
	if err != nil {
		return err
	}

	user, err := app.client.Register(cmd.Context(), username, password, registerPhone)
	if err != nil {
		return err
	}

	fmt.Printf("Created account %s. Run 'tick login %s' to sign in.\n", user.Username, user.Username)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp(todo.StdioPrompter{})
	if err != nil {
		return err
	}

	if _, ok := app.sess.Token(); !ok {
		fmt.Println("Not signed in.")
		return nil
	}

	user, err := app.client.Me(cmd.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if clearErr := app.forgetSession(); clearErr != nil {
				return clearErr
			}
			fmt.Println("Session expired. Run 'tick login' to sign in again.")
			return nil
		}
		return err
	}

	fmt.Printf("Signed in as %s (user %d) on %s\n", user.Username, user.ID, app.serverURL)
	return nil
}

// readPassword reads a password without echo when stdin is a terminal,
// and falls back to a plain line read otherwise so the command works
// in pipes and scripts.
func readPassword(prompt string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
