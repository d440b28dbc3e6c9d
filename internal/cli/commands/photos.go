package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/gallery"
	"github.com/LT1923/4c2025/internal/models"
)

// NewPhotosCmd creates the photos command group
func NewPhotosCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "photos",
		Aliases: []string{"photo"},
		Short:   "List and manage photos",
	}

	cmd.AddCommand(newPhotosListCmd(env))
	cmd.AddCommand(newPhotosUploadCmd(env))
	cmd.AddCommand(newPhotoStatusCmd(env, "trash", "Move a photo to the trash", "Moved to trash", (*gallery.Gallery).MoveToTrash))
	cmd.AddCommand(newPhotoStatusCmd(env, "restore", "Restore a photo from the trash", "Restored", (*gallery.Gallery).RestoreFromTrash))
	cmd.AddCommand(newPhotoStatusCmd(env, "rm", "Delete a photo permanently", "Deleted", (*gallery.Gallery).PermanentlyDelete))
	cmd.AddCommand(newPhotosMoveCmd(env))
	cmd.AddCommand(newPhotosEditCmd(env))

	return cmd
}

func newPhotosListCmd(env *Env) *cobra.Command {
	var recent, trash bool
	var albumID int64

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case albumID > 0:
				printPhotos(out, a.Gallery.AlbumPhotos(albumID), "No photos in this album.")
			case recent:
				printPhotos(out, a.Gallery.RecentPhotos(), "No recent photos.")
			case trash:
				printPhotos(out, a.Gallery.TrashPhotos(), "Trash is empty.")
			default:
				printPhotos(out, a.Gallery.AllPhotos(), "No photos found.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "Only recent uploads")
	cmd.Flags().BoolVar(&trash, "trash", false, "Photos in the trash")
	cmd.Flags().Int64Var(&albumID, "album", 0, "Photos of one album")
	cmd.MarkFlagsMutuallyExclusive("recent", "trash", "album")

	return cmd
}

func newPhotosUploadCmd(env *Env) *cobra.Command {
	var albumID int64

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload png, jpg or gif files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			in := gallery.Upload{}
			if albumID > 0 {
				in.AlbumID = &albumID
			}

			var failed int
			for _, path := range args {
				in.FilePath = path
				res := a.Gallery.Upload(in)
				if !res.Success {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %s\n", path, res.Message)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → #%d %s\n", path, res.PhotoID, res.PhotoURL)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&albumID, "album", 0, "Put the uploads into this album")

	return cmd
}

func newPhotoStatusCmd(env *Env, use, short, done string, op func(*gallery.Gallery, int64) models.Result) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <photo-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("photo", args[0])
			if err != nil {
				return err
			}

			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			if err := check(op(a.Gallery, id), short); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s #%d\n", done, id)
			return nil
		},
	}
}

func newPhotosMoveCmd(env *Env) *cobra.Command {
	var none bool

	cmd := &cobra.Command{
		Use:   "mv <photo-id> [album-id]",
		Short: "Move a photo into an album (prompts when no album is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			photoID, err := parseID("photo", args[0])
			if err != nil {
				return err
			}

			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			var albumID *int64
			label := "no album"
			switch {
			case none:
			case len(args) == 2:
				id, err := parseID("album", args[1])
				if err != nil {
					return err
				}
				albumID = &id
				label = fmt.Sprintf("album #%d", id)
			default:
				selection, err := env.Prompter.SelectAlbum(a.Gallery.Albums())
				if err != nil {
					return err
				}
				albumID = selection.AlbumID
				label = selection.Label
			}

			if err := check(a.Gallery.MoveToAlbum(photoID, albumID), "move failed"); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved #%d to %s\n", photoID, label)
			return nil
		},
	}

	cmd.Flags().BoolVar(&none, "none", false, "Take the photo out of its album")

	return cmd
}

func newPhotosEditCmd(env *Env) *cobra.Command {
	var text string
	var albumID int64

	cmd := &cobra.Command{
		Use:   "edit <photo-id>",
		Short: "Change a photo's text or album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photoID, err := parseID("photo", args[0])
			if err != nil {
				return err
			}

			update := client.PhotoUpdate{}
			if cmd.Flags().Changed("text") {
				update.Text = &text
			}
			if albumID > 0 {
				update.AlbumID = &albumID
			}
			if update.Text == nil && update.AlbumID == nil {
				return errors.New("nothing to change (use --text or --album)")
			}

			a, err := env.loggedIn()
			if err != nil {
				return err
			}

			if err := check(a.Gallery.UpdatePhoto(photoID, update), "update failed"); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated #%d\n", photoID)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Photo text")
	cmd.Flags().Int64Var(&albumID, "album", 0, "Album id")

	return cmd
}
