package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type credentialFlags struct {
	phone    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number (or set ALBUM_PHONE)")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (or set ALBUM_PASSWORD, will prompt if not provided)")
}

// resolve fills the credentials from the environment, then the prompt
func (f *credentialFlags) resolve(env *Env) (string, string, error) {
	phone, password := f.phone, f.password

	// Check for environment variables (useful for scripts)
	if phone == "" {
		phone = os.Getenv("ALBUM_PHONE")
	}
	if password == "" {
		password = os.Getenv("ALBUM_PASSWORD")
	}

	if phone == "" {
		return "", "", errors.New("phone is required (use --phone flag or ALBUM_PHONE env var)")
	}

	if password == "" {
		p, err := env.Prompter.Password()
		if err != nil {
			return "", "", err
		}
		password = p
	}

	return phone, password, nil
}

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			phone, password, err := flags.resolve(env)
			if err != nil {
				return err
			}

			a, err := env.App()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logging in to %s...\n", a.Client.BaseURL())

			res := a.Session.Login(phone, password)
			if !res.Success {
				return fmt.Errorf("login failed: %s", res.Message)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Login successful!")
			fmt.Fprintf(cmd.OutOrStdout(), "  User: %s (id %d)\n", res.User.Phone, res.User.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(env *Env) *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not log in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			phone, password, err := flags.resolve(env)
			if err != nil {
				return err
			}

			a, err := env.App()
			if err != nil {
				return err
			}

			res := a.Session.Register(phone, password)
			if !res.Success {
				return fmt.Errorf("registration failed: %s", res.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered (user id %d)\n", res.UserID)
			fmt.Fprintf(cmd.OutOrStdout(), "\nLog in with: album login --phone %s\n", phone)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App()
			if err != nil {
				return err
			}

			a.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App()
			if err != nil {
				return err
			}

			if !a.Session.IsLoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			user := a.Session.GetUser()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", user.Phone, user.ID)
			return nil
		},
	}
}
