package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewOpenCmd creates the open command, which navigates like the web front does
func NewOpenCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open a page (/, /recent, /albums, /album/<id>, /trash, /auth)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App()
			if err != nil {
				return err
			}

			path := "/"
			if len(args) == 1 {
				path = args[0]
			}

			m, err := a.Router.Push(path)
			if err != nil {
				return err
			}
			if requested, err := a.Router.Resolve(path); err == nil && requested.Path != m.Path {
				fmt.Fprintf(cmd.OutOrStdout(), "→ redirected to %s\n\n", m.Path)
			}

			// Same order as the web front: the guard decides, then the session hydrates
			a.Session.CheckAuth()

			view, err := a.Views.Build(m)
			if err != nil {
				return err
			}

			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
}
