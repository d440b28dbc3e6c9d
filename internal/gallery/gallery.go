// Package gallery exposes the photo and album operations of the logged-in user.
//
// Reads degrade to empty results and mutations to a failed models.Result;
// nothing here returns an error. The user id always comes from the session's
// in-memory user, which is never hydrated from storage here.
package gallery

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/models"
)

// API is the resource client the gallery calls
type API interface {
	ListPhotos(userID int64) ([]models.Photo, error)
	RecentPhotos(userID int64) ([]models.Photo, error)
	TrashPhotos(userID int64) ([]models.Photo, error)
	AlbumPhotos(albumID int64) ([]models.Photo, error)
	SearchPhotos(userID int64, keyword string, view models.SearchView) (*client.SearchResponse, error)
	UploadPhoto(req client.UploadRequest) (*client.UploadResponse, error)
	UpdatePhoto(photoID int64, update client.PhotoUpdate) error
	MovePhoto(photoID int64, albumID *int64) error
	SetPhotoStatus(photoID int64, status models.PhotoStatus) error
	DeletePhoto(photoID int64) error

	ListAlbums(userID int64) ([]models.Album, error)
	GetAlbum(albumID int64) (*models.Album, error)
	CreateAlbum(req client.CreateAlbumRequest) (*client.CreateAlbumResponse, error)
	UpdateAlbum(albumID int64, update client.AlbumUpdate) error
	DeleteAlbum(albumID int64) error
}

// Users provides the current user; *session.Store satisfies it
type Users interface {
	GetUser() *models.User
}

// Gallery runs photo and album operations for the session's user
type Gallery struct {
	api    API
	users  Users
	logger zerolog.Logger
}

// New creates a gallery
func New(api API, users Users, log zerolog.Logger) *Gallery {
	return &Gallery{
		api:    api,
		users:  users,
		logger: log.With().Str("component", "gallery").Logger(),
	}
}

// UserID returns the current user's id, or 0 without a session
func (g *Gallery) UserID() int64 {
	if u := g.users.GetUser(); u != nil {
		return u.ID
	}
	return 0
}

// AllPhotos returns the user's photos outside the trash
func (g *Gallery) AllPhotos() []models.Photo {
	return g.userPhotos("all", g.api.ListPhotos)
}

// RecentPhotos returns the user's latest uploads
func (g *Gallery) RecentPhotos() []models.Photo {
	return g.userPhotos("recent", g.api.RecentPhotos)
}

// TrashPhotos returns the photos in the user's trash
func (g *Gallery) TrashPhotos() []models.Photo {
	return g.userPhotos("trash", g.api.TrashPhotos)
}

func (g *Gallery) userPhotos(kind string, list func(int64) ([]models.Photo, error)) []models.Photo {
	userID := g.UserID()
	if userID == 0 {
		return []models.Photo{}
	}

	photos, err := list(userID)
	if err != nil {
		g.logger.Error().Err(err).Str("list", kind).Int64("user_id", userID).Msg("Failed to list photos")
		return []models.Photo{}
	}
	return photos
}

// AlbumPhotos returns the photos of one album
func (g *Gallery) AlbumPhotos(albumID int64) []models.Photo {
	if albumID <= 0 {
		return []models.Photo{}
	}

	photos, err := g.api.AlbumPhotos(albumID)
	if err != nil {
		g.logger.Error().Err(err).Int64("album_id", albumID).Msg("Failed to list album photos")
		return []models.Photo{}
	}
	return photos
}

// Albums returns the user's albums
func (g *Gallery) Albums() []models.Album {
	userID := g.UserID()
	if userID == 0 {
		return []models.Album{}
	}

	albums, err := g.api.ListAlbums(userID)
	if err != nil {
		g.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to list albums")
		return []models.Album{}
	}
	return albums
}

// Album returns one album, or nil if it cannot be fetched
func (g *Gallery) Album(albumID int64) *models.Album {
	if albumID <= 0 {
		return nil
	}

	album, err := g.api.GetAlbum(albumID)
	if err != nil {
		g.logger.Error().Err(err).Int64("album_id", albumID).Msg("Failed to get album")
		return nil
	}
	return album
}

// Search runs a keyword search over one view of the user's photos
func (g *Gallery) Search(keyword string, view models.SearchView) []models.Photo {
	userID := g.UserID()
	if userID == 0 {
		return []models.Photo{}
	}
	if view == "" {
		view = models.ViewAll
	}

	resp, err := g.api.SearchPhotos(userID, keyword, view)
	if err != nil {
		g.logger.Error().Err(err).Str("keyword", keyword).Str("view", string(view)).Msg("Search failed")
		return []models.Photo{}
	}

	g.logger.Debug().Str("keyword", keyword).Str("view", string(view)).Int("count", len(resp.Photos)).Msg("Search")
	return resp.Photos
}

// Upload describes a photo to upload for the current user
type Upload struct {
	FilePath string
	AlbumID  *int64
	Status   models.PhotoStatus
}

// UploadResult is the outcome of Upload
type UploadResult struct {
	models.Result
	PhotoID  int64  `json:"photo_id,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Upload sends a photo file for the current user
func (g *Gallery) Upload(in Upload) UploadResult {
	userID := g.UserID()
	if userID == 0 {
		return UploadResult{Result: models.Fail(models.MsgNotLoggedIn)}
	}

	resp, err := g.api.UploadPhoto(client.UploadRequest{
		FilePath: in.FilePath,
		UserID:   userID,
		AlbumID:  in.AlbumID,
		Status:   in.Status,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("file", in.FilePath).Msg("Upload failed")
		return UploadResult{Result: models.Fail(failureMessage(err, "Failed to upload photo"))}
	}

	g.logger.Info().Int64("photo_id", resp.PhotoID).Msg("Photo uploaded")
	return UploadResult{Result: models.OK(), PhotoID: resp.PhotoID, PhotoURL: resp.PhotoURL}
}

// NewAlbum describes an album to create for the current user
type NewAlbum struct {
	Name     string
	Content  string
	CoverURL *string
}

// CreateAlbumResult is the outcome of CreateAlbum
type CreateAlbumResult struct {
	models.Result
	AlbumID int64 `json:"album_id,omitempty"`
}

// CreateAlbum creates an album owned by the current user
func (g *Gallery) CreateAlbum(in NewAlbum) CreateAlbumResult {
	userID := g.UserID()
	if userID == 0 {
		return CreateAlbumResult{Result: models.Fail(models.MsgNotLoggedIn)}
	}

	resp, err := g.api.CreateAlbum(client.CreateAlbumRequest{
		Name:     in.Name,
		Content:  in.Content,
		UserID:   userID,
		CoverURL: in.CoverURL,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("name", in.Name).Msg("Failed to create album")
		return CreateAlbumResult{Result: models.Fail(failureMessage(err, "Failed to create album"))}
	}

	return CreateAlbumResult{Result: models.OK(), AlbumID: resp.AlbumID}
}

// MoveToAlbum puts a photo into an album; nil takes it out of its album
func (g *Gallery) MoveToAlbum(photoID int64, albumID *int64) models.Result {
	return g.mutate("move photo", "Failed to move photo", func() error {
		return g.api.MovePhoto(photoID, albumID)
	})
}

// UpdatePhoto edits a photo's text or album
func (g *Gallery) UpdatePhoto(photoID int64, update client.PhotoUpdate) models.Result {
	return g.mutate("update photo", "Failed to update photo", func() error {
		return g.api.UpdatePhoto(photoID, update)
	})
}

// UpdateAlbum edits an album
func (g *Gallery) UpdateAlbum(albumID int64, update client.AlbumUpdate) models.Result {
	return g.mutate("update album", "Failed to update album", func() error {
		return g.api.UpdateAlbum(albumID, update)
	})
}

// DeletePhoto deletes a photo outright
func (g *Gallery) DeletePhoto(photoID int64) models.Result {
	return g.mutate("delete photo", "Failed to delete photo", func() error {
		return g.api.DeletePhoto(photoID)
	})
}

// DeleteAlbum deletes an album
func (g *Gallery) DeleteAlbum(albumID int64) models.Result {
	return g.mutate("delete album", "Failed to delete album", func() error {
		return g.api.DeleteAlbum(albumID)
	})
}

// MoveToTrash marks a photo as trashed
func (g *Gallery) MoveToTrash(photoID int64) models.Result {
	return g.mutate("move to trash", "Failed to move photo to trash", func() error {
		return g.api.SetPhotoStatus(photoID, models.PhotoTrash)
	})
}

// RestoreFromTrash marks a trashed photo as normal again
func (g *Gallery) RestoreFromTrash(photoID int64) models.Result {
	return g.mutate("restore from trash", "Failed to restore photo", func() error {
		return g.api.SetPhotoStatus(photoID, models.PhotoNormal)
	})
}

// PermanentlyDelete removes a photo from the trash for good
func (g *Gallery) PermanentlyDelete(photoID int64) models.Result {
	return g.mutate("permanently delete", "Failed to delete photo", func() error {
		return g.api.DeletePhoto(photoID)
	})
}

func (g *Gallery) mutate(op, fallback string, call func() error) models.Result {
	if err := call(); err != nil {
		g.logger.Error().Err(err).Str("op", op).Msg("Gallery operation failed")
		return models.Fail(failureMessage(err, fallback))
	}
	return models.OK()
}

// failureMessage prefers the server's own message, then fallback, and maps
// connection problems to the network error message
func failureMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return statusErr.Message
		}
		return fallback
	}

	if errors.Is(err, client.ErrInvalidRequest) {
		return err.Error()
	}

	return models.MsgNetworkError
}
