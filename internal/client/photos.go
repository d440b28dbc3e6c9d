package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/LT1923/4c2025/internal/models"
)

// Upload rules match the server's: extension and content must both be an accepted image
var (
	allowedExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}
	allowedMIMETypes  = []string{"image/png", "image/jpeg", "image/gif"}
)

type photosResponse struct {
	Photos []models.Photo `json:"photos"`
}

func (c *Client) listPhotos(path string) ([]models.Photo, error) {
	var resp photosResponse
	if err := c.doJSON(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Photos == nil {
		return []models.Photo{}, nil
	}
	return resp.Photos, nil
}

// ListPhotos returns the user's photos that are not in the trash
func (c *Client) ListPhotos(userID int64) ([]models.Photo, error) {
	return c.listPhotos(fmt.Sprintf("/photos/user/%d", userID))
}

// RecentPhotos returns the user's most recently uploaded photos
func (c *Client) RecentPhotos(userID int64) ([]models.Photo, error) {
	return c.listPhotos(fmt.Sprintf("/photos/recent/%d", userID))
}

// TrashPhotos returns the photos in the user's trash
func (c *Client) TrashPhotos(userID int64) ([]models.Photo, error) {
	return c.listPhotos(fmt.Sprintf("/photos/trash/%d", userID))
}

// AlbumPhotos returns the photos of one album
func (c *Client) AlbumPhotos(albumID int64) ([]models.Photo, error) {
	return c.listPhotos(fmt.Sprintf("/albums/%d/photos", albumID))
}

// SearchResponse represents the search response
type SearchResponse struct {
	Photos []models.Photo `json:"photos"`
	Count  int            `json:"count"`
}

// SearchPhotos runs a free-text search over one view of the user's photos
func (c *Client) SearchPhotos(userID int64, keyword string, view models.SearchView) (*SearchResponse, error) {
	switch view {
	case models.ViewAll, models.ViewRecent, models.ViewTrash:
	default:
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidRequest, view)
	}

	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("view", string(view))

	var resp SearchResponse
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/photos/search/%d?%s", userID, query.Encode()), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Photos == nil {
		resp.Photos = []models.Photo{}
	}
	return &resp, nil
}

// UploadRequest describes one photo upload
type UploadRequest struct {
	FilePath string             `validate:"required"`
	UserID   int64              `validate:"gt=0"`
	AlbumID  *int64             `validate:"omitempty,gt=0"`
	Status   models.PhotoStatus `validate:"gte=0,lte=2"`
}

// UploadResponse represents the upload response
type UploadResponse struct {
	Message  string `json:"message"`
	PhotoID  int64  `json:"photo_id"`
	PhotoURL string `json:"photo_url"`
}

// UploadPhoto sends the file as multipart form data
func (c *Client) UploadPhoto(req UploadRequest) (*UploadResponse, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}

	if err := checkImage(req.FilePath); err != nil {
		return nil, err
	}

	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("photo", filepath.Base(req.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	fields := map[string]string{
		"user_id": strconv.FormatInt(req.UserID, 10),
		"status":  strconv.Itoa(int(req.Status)),
	}
	if req.AlbumID != nil {
		fields["album_id"] = strconv.FormatInt(*req.AlbumID, 10)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var resp UploadResponse
	if err := c.do(http.MethodPost, "/photos/upload", &body, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// checkImage rejects files the server would refuse
func checkImage(path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %w: %s", ErrInvalidRequest, ErrUnsupportedFileType, filepath.Base(path))
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedMIMETypes...) {
		return fmt.Errorf("%w: %w: %s is %s", ErrInvalidRequest, ErrUnsupportedFileType, filepath.Base(path), mtype.String())
	}

	return nil
}

// PhotoUpdate carries the editable photo fields; nil fields are left alone
type PhotoUpdate struct {
	Text    *string `json:"text,omitempty"`
	AlbumID *int64  `json:"album_id,omitempty"`
}

// UpdatePhoto edits a photo's text or album
func (c *Client) UpdatePhoto(photoID int64, update PhotoUpdate) error {
	if update.Text == nil && update.AlbumID == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidRequest)
	}
	return c.doJSON(http.MethodPut, fmt.Sprintf("/photos/%d", photoID), update, nil)
}

// MovePhoto moves a photo into an album; a nil albumID takes it out of its album
func (c *Client) MovePhoto(photoID int64, albumID *int64) error {
	body := struct {
		AlbumID *int64 `json:"album_id"`
	}{AlbumID: albumID}
	return c.doJSON(http.MethodPut, fmt.Sprintf("/photos/move/%d", photoID), body, nil)
}

// SetPhotoStatus moves a photo to the trash or back
func (c *Client) SetPhotoStatus(photoID int64, status models.PhotoStatus) error {
	if status != models.PhotoNormal && status != models.PhotoTrash {
		return fmt.Errorf("%w: status must be %s or %s", ErrInvalidRequest, models.PhotoNormal, models.PhotoTrash)
	}
	body := struct {
		Status models.PhotoStatus `json:"status"`
	}{Status: status}
	return c.doJSON(http.MethodPut, fmt.Sprintf("/photos/%d/status", photoID), body, nil)
}

// DeletePhoto permanently deletes a photo
func (c *Client) DeletePhoto(photoID int64) error {
	return c.doJSON(http.MethodDelete, fmt.Sprintf("/photos/%d", photoID), nil, nil)
}
