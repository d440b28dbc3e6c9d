package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LT1923/4c2025/internal/app"
	"github.com/LT1923/4c2025/internal/cli/commands"
	"github.com/LT1923/4c2025/internal/config"
	"github.com/LT1923/4c2025/internal/logger"
)

var version = "dev" // Will be set during build

// LoadApp reads the configuration, sets up logging and builds the App
func LoadApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	return app.New(cfg, logger.GetLogger())
}

// NewRootCmd builds the command tree around env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "album",
		Short: "Album - a photo album client",
		Long: `Album is a client for the photo album service.

Log in once and the session is remembered in the configured storage backend
(file, keyring, redis, sqlite) until you log out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return env.Close()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "album version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewRegisterCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewOpenCmd(env))
	rootCmd.AddCommand(commands.NewPhotosCmd(env))
	rootCmd.AddCommand(commands.NewSearchCmd(env))
	rootCmd.AddCommand(commands.NewAlbumsCmd(env))
	rootCmd.AddCommand(commands.NewWebCmd(env, version))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	env := &commands.Env{Load: LoadApp, Prompter: commands.TerminalPrompter{}}
	defer env.Close()

	if err := NewRootCmd(env).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
