package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/gallery"
)

// NewAlbumsCmd creates the albums command group
func NewAlbumsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "albums",
		Aliases: []string{"album"},
		Short:   "List and manage albums",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List albums",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loggedIn()
			if err != nil {
				return err
			}
			printAlbums(cmd.OutOrStdout(), a.Gallery.Albums())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <album-id>",
		Short: "Show an album and its photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("album", args[0])
			if err != nil {
				return err
			}
			a, err := env.loggedIn()
			if err != nil {
				return err
			}
			printAlbum(cmd.OutOrStdout(), a.Gallery.Album(id), a.Gallery.AlbumPhotos(id))
			return nil
		},
	})

	cmd.AddCommand(newAlbumsCreateCmd(env))
	cmd.AddCommand(newAlbumsEditCmd(env))

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <album-id>",
		Short: "Delete an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("album", args[0])
			if err != nil {
				return err
			}
			a, err := env.loggedIn()
			if err != nil {
				return err
			}
			if err := check(a.Gallery.DeleteAlbum(id), "delete failed"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted album #%d\n", id)
			return nil
		},
	})

	return cmd
}

func newAlbumsCreateCmd(env *Env) *cobra.Command {
	var content, cover string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			in := gallery.NewAlbum{Name: args[0], Content: content}
			if cover != "" {
				in.CoverURL = &cover
			}

			res := a.Gallery.CreateAlbum(in)
			if err := check(res.Result, "create failed"); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created album %q (#%d)\n", args[0], res.AlbumID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Album description")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image URL")

	return cmd
}

func newAlbumsEditCmd(env *Env) *cobra.Command {
	var name, content, cover string

	cmd := &cobra.Command{
		Use:   "edit <album-id>",
		Short: "Change an album's name, description or cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("album", args[0])
			if err != nil {
				return err
			}

			update := client.AlbumUpdate{}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("content") {
				update.Content = &content
			}
			if cmd.Flags().Changed("cover") {
				update.CoverURL = &cover
			}
			if update.Name == nil && update.Content == nil && update.CoverURL == nil {
				return errors.New("nothing to change (use --name, --content or --cover)")
			}

			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			if err := check(a.Gallery.UpdateAlbum(id, update), "update failed"); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated album #%d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Album name")
	cmd.Flags().StringVar(&content, "content", "", "Album description")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image URL")

	return cmd
}
