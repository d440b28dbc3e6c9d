package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LT1923/4c2025/internal/models"
)

// NewSearchCmd creates the search command
func NewSearchCmd(env *Env) *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search photo texts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch models.SearchView(view) {
			case models.ViewAll, models.ViewRecent, models.ViewTrash:
			default:
				return fmt.Errorf("invalid view %q (use all, recent or trash)", view)
			}

			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			photos := a.Gallery.Search(args[0], models.SearchView(view))
			printPhotos(cmd.OutOrStdout(), photos, fmt.Sprintf("No photos match %q.", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", string(models.ViewAll), "Where to search: all, recent or trash")

	return cmd
}
