package client

import (
	"fmt"
	"net/http"

	"github.com/LT1923/4c2025/internal/models"
)

type albumsResponse struct {
	Albums []models.Album `json:"albums"`
}

// ListAlbums returns all albums of a user, each with its photo count
func (c *Client) ListAlbums(userID int64) ([]models.Album, error) {
	var resp albumsResponse
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/albums/user/%d", userID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Albums == nil {
		return []models.Album{}, nil
	}
	return resp.Albums, nil
}

// GetAlbum returns one album
func (c *Client) GetAlbum(albumID int64) (*models.Album, error) {
	var resp struct {
		Album *models.Album `json:"album"`
	}
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/albums/%d", albumID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Album == nil {
		return nil, fmt.Errorf("%w: album response without album", ErrMalformedResponse)
	}
	return resp.Album, nil
}

// CreateAlbumRequest represents the album creation request
type CreateAlbumRequest struct {
	Name     string  `json:"name" validate:"required"`
	Content  string  `json:"content"`
	UserID   int64   `json:"user_id" validate:"gt=0"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// CreateAlbumResponse represents the album creation response
type CreateAlbumResponse struct {
	Message string `json:"message"`
	AlbumID int64  `json:"album_id"`
}

// CreateAlbum creates a new album
func (c *Client) CreateAlbum(req CreateAlbumRequest) (*CreateAlbumResponse, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}

	var resp CreateAlbumResponse
	if err := c.doJSON(http.MethodPost, "/albums/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AlbumUpdate carries the editable album fields; nil fields are left alone
type AlbumUpdate struct {
	Name     *string `json:"name,omitempty"`
	Content  *string `json:"content,omitempty"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// UpdateAlbum edits an album
func (c *Client) UpdateAlbum(albumID int64, update AlbumUpdate) error {
	if update.Name == nil && update.Content == nil && update.CoverURL == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidRequest)
	}
	return c.doJSON(http.MethodPut, fmt.Sprintf("/albums/%d", albumID), update, nil)
}

// DeleteAlbum deletes an album
func (c *Client) DeleteAlbum(albumID int64) error {
	return c.doJSON(http.MethodDelete, fmt.Sprintf("/albums/%d", albumID), nil, nil)
}
