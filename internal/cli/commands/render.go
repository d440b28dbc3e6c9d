package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/router"
	"github.com/LT1923/4c2025/internal/views"
)

func printPhotos(out io.Writer, photos []models.Photo, empty string) {
	if len(photos) == 0 {
		fmt.Fprintln(out, empty)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDRESS\tTEXT\tALBUM\tUPLOADED")
	fmt.Fprintln(w, "──\t───────\t────\t─────\t────────")

	for _, p := range photos {
		text, album := "", ""
		if p.Text != nil {
			text = *p.Text
		}
		if p.AlbumID != nil {
			album = strconv.FormatInt(*p.AlbumID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Address, text, album, p.Time)
	}

	w.Flush()
}

func printAlbums(out io.Writer, albums []models.Album) {
	if len(albums) == 0 {
		fmt.Fprintln(out, "No albums found.")
		fmt.Fprintln(out, "\nCreate one with: album albums create <name>")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHOTOS\tCREATED AT")
	fmt.Fprintln(w, "──\t────\t──────\t──────────")

	for _, a := range albums {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", a.ID, a.Name, a.PhotoCount, a.CreatedAt)
	}

	w.Flush()
}

func printAlbum(out io.Writer, album *models.Album, photos []models.Photo) {
	if album == nil {
		fmt.Fprintln(out, "Album not found.")
		return
	}

	fmt.Fprintf(out, "%s (#%d)\n", album.Name, album.ID)
	if album.Content != "" {
		fmt.Fprintf(out, "  %s\n", album.Content)
	}
	if album.CoverURL != nil {
		fmt.Fprintf(out, "  Cover: %s\n", *album.CoverURL)
	}
	fmt.Fprintln(out)
	printPhotos(out, photos, "No photos in this album.")
}

func printView(out io.Writer, v views.View) {
	switch v.Route {
	case router.RouteAuth:
		fmt.Fprintln(out, "Not logged in.")
		fmt.Fprintln(out, "\nLog in with: album login --phone <phone>")
	case router.RouteAlbums:
		printAlbums(out, v.Albums)
	case router.RouteAlbum:
		printAlbum(out, v.Album, v.Photos)
	case router.RouteTrash:
		printPhotos(out, v.Photos, "Trash is empty.")
	default:
		printPhotos(out, v.Photos, "No photos found.")
	}
}
