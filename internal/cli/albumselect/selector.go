package albumselect

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/LT1923/4c2025/internal/models"
)

// ErrNoAlbums is returned when there is nothing to choose from
var ErrNoAlbums = errors.New("no albums found")

// Selection is the result of a prompt. AlbumID is nil when the user chose to
// take the photo out of its album.
type Selection struct {
	AlbumID *int64
	Label   string
}

type albumOption struct {
	Label   string
	AlbumID *int64
}

// Options builds the prompt entries: every album, then an entry for no album
func Options(albums []models.Album) []Selection {
	options := make([]Selection, 0, len(albums)+1)
	for i := range albums {
		id := albums[i].ID
		options = append(options, Selection{
			AlbumID: &id,
			Label:   fmt.Sprintf("%s (%d photos) #%d", albums[i].Name, albums[i].PhotoCount, id),
		})
	}
	options = append(options, Selection{Label: "No album"})
	return options
}

// PromptAlbumSelection shows an interactive prompt for the user to pick a
// destination album
func PromptAlbumSelection(albums []models.Album) (Selection, error) {
	if len(albums) == 0 {
		return Selection{}, ErrNoAlbums
	}

	selections := Options(albums)
	options := make([]albumOption, len(selections))
	for i, s := range selections {
		options[i] = albumOption{Label: s.Label, AlbumID: s.AlbumID}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Move to album",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("album selection cancelled: %w", err)
	}

	return selections[index], nil
}
