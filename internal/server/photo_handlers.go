package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/gallery"
	"github.com/LT1923/4c2025/internal/models"
)

// SearchQuery is the query string of GET /api/search
type SearchQuery struct {
	Keyword string `form:"keyword" binding:"required"`
	View    string `form:"view" binding:"omitempty,oneof=all recent trash"`
}

// SearchResponse lists the photos matching a search
type SearchResponse struct {
	Photos []models.Photo `json:"photos"`
	Count  int            `json:"count"`
}

// UpdatePhotoRequest edits a photo; absent fields are left alone
type UpdatePhotoRequest struct {
	Text    *string `json:"text"`
	AlbumID *int64  `json:"album_id"`
}

// MovePhotoRequest moves a photo; a null album_id takes it out of its album
type MovePhotoRequest struct {
	AlbumID *int64 `json:"album_id"`
}

// respondResult answers with body, using the status that fits res
func respondResult(c *gin.Context, res models.Result, body any, okStatus int) {
	if res.Success {
		c.JSON(okStatus, body)
		return
	}

	status := http.StatusBadRequest
	switch res.Message {
	case models.MsgNetworkError:
		status = http.StatusBadGateway
	case models.MsgNotLoggedIn:
		status = http.StatusUnauthorized
	}
	c.JSON(status, body)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid id"))
		return 0, false
	}
	return id, true
}

func (s *Server) search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("keyword is required and view must be all, recent or trash"))
		return
	}

	photos := s.app.Gallery.Search(q.Keyword, models.SearchView(q.View))
	c.JSON(http.StatusOK, SearchResponse{Photos: photos, Count: len(photos)})
}

// uploadPhoto takes a multipart form with the file under "photo" and optional
// "album_id" and "status" fields
func (s *Server) uploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("No photo provided"))
		return
	}

	in := gallery.Upload{}
	if v := c.PostForm("album_id"); v != "" {
		albumID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid album id"))
			return
		}
		in.AlbumID = &albumID
	}
	if v := c.PostForm("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid status"))
			return
		}
		in.Status = models.PhotoStatus(status)
	}

	dir, err := os.MkdirTemp("", "photoalbum-upload-*")
	if err != nil {
		s.respondWithError(c, http.StatusInternalServerError, err, "Failed to stage upload")
		return
	}
	defer os.RemoveAll(dir)

	// The file name is kept so the type check and the server see the original extension
	in.FilePath = filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, in.FilePath); err != nil {
		s.respondWithError(c, http.StatusInternalServerError, err, "Failed to stage upload")
		return
	}

	res := s.app.Gallery.Upload(in)
	respondResult(c, res.Result, res, http.StatusCreated)
}

func (s *Server) updatePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
		return
	}

	res := s.app.Gallery.UpdatePhoto(id, client.PhotoUpdate{Text: req.Text, AlbumID: req.AlbumID})
	respondResult(c, res, res, http.StatusOK)
}

func (s *Server) movePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req MovePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
		return
	}

	res := s.app.Gallery.MoveToAlbum(id, req.AlbumID)
	respondResult(c, res, res, http.StatusOK)
}

func (s *Server) trashPhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := s.app.Gallery.MoveToTrash(id)
	respondResult(c, res, res, http.StatusOK)
}

func (s *Server) restorePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := s.app.Gallery.RestoreFromTrash(id)
	respondResult(c, res, res, http.StatusOK)
}

// deletePhoto removes a photo for good
func (s *Server) deletePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := s.app.Gallery.PermanentlyDelete(id)
	respondResult(c, res, res, http.StatusOK)
}
