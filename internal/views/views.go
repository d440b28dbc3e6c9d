// Package views turns a resolved route into the data its page shows
package views

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/router"
)

// ErrBadParam is returned when a path parameter is not a valid id
var ErrBadParam = errors.New("bad path parameter")

// Gallery is what the views read from; *gallery.Gallery satisfies it
type Gallery interface {
	AllPhotos() []models.Photo
	RecentPhotos() []models.Photo
	TrashPhotos() []models.Photo
	AlbumPhotos(albumID int64) []models.Photo
	Albums() []models.Album
	Album(albumID int64) *models.Album
}

// Users provides the current user
type Users interface {
	GetUser() *models.User
}

// View is one rendered page
type View struct {
	Route  string         `json:"route"`
	Path   string         `json:"path"`
	User   *models.User   `json:"user,omitempty"`
	Photos []models.Photo `json:"photos,omitempty"`
	Albums []models.Album `json:"albums,omitempty"`
	Album  *models.Album  `json:"album,omitempty"`
}

// Builder builds views for resolved routes
type Builder struct {
	gallery Gallery
	users   Users
}

// NewBuilder creates a view builder
func NewBuilder(g Gallery, users Users) *Builder {
	return &Builder{gallery: g, users: users}
}

// Build loads the data for the page at m
func (b *Builder) Build(m router.Match) (View, error) {
	v := View{Route: m.Route.Name, Path: m.Path, User: b.users.GetUser()}

	switch m.Route.Name {
	case router.RouteHome:
		v.Photos = b.gallery.AllPhotos()
	case router.RouteRecent:
		v.Photos = b.gallery.RecentPhotos()
	case router.RouteTrash:
		v.Photos = b.gallery.TrashPhotos()
	case router.RouteAlbums:
		v.Albums = b.gallery.Albums()
	case router.RouteAlbum:
		albumID, err := strconv.ParseInt(m.Param("albumId"), 10, 64)
		if err != nil || albumID <= 0 {
			return View{}, fmt.Errorf("%w: albumId %q", ErrBadParam, m.Param("albumId"))
		}
		v.Album = b.gallery.Album(albumID)
		v.Photos = b.gallery.AlbumPhotos(albumID)
	case router.RouteAuth:
		v.User = nil
	}

	return v, nil
}
