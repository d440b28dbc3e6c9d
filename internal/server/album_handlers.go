package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/gallery"
	"github.com/LT1923/4c2025/internal/models"
)

// CreateAlbumRequest represents a request to create an album for the current user
type CreateAlbumRequest struct {
	Name     string  `json:"name" binding:"required"`
	Content  string  `json:"content"`
	CoverURL *string `json:"cover_url"`
}

// UpdateAlbumRequest edits an album; absent fields are left alone
type UpdateAlbumRequest struct {
	Name     *string `json:"name"`
	Content  *string `json:"content"`
	CoverURL *string `json:"cover_url"`
}

func (s *Server) createAlbum(c *gin.Context) {
	var req CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Album name is required"))
		return
	}

	res := s.app.Gallery.CreateAlbum(gallery.NewAlbum{
		Name:     req.Name,
		Content:  req.Content,
		CoverURL: req.CoverURL,
	})
	respondResult(c, res.Result, res, http.StatusCreated)
}

func (s *Server) updateAlbum(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
		return
	}

	res := s.app.Gallery.UpdateAlbum(id, client.AlbumUpdate{
		Name:     req.Name,
		Content:  req.Content,
		CoverURL: req.CoverURL,
	})
	respondResult(c, res, res, http.StatusOK)
}

func (s *Server) deleteAlbum(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := s.app.Gallery.DeleteAlbum(id)
	respondResult(c, res, res, http.StatusOK)
}
