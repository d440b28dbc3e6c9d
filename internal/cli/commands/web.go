package commands

import (
	"github.com/spf13/cobra"

	"github.com/LT1923/4c2025/internal/server"
)

// NewWebCmd creates the web command
func NewWebCmd(env *Env, version string) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the web front",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App()
			if err != nil {
				return err
			}
			if address != "" {
				a.Config.Web.Address = address
			}

			return server.New(a, a.Logger, version).Start()
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (default from WEB_ADDRESS)")

	return cmd
}
