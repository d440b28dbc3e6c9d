package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/views"
)

// renderView answers a page request the guard let through. The session is
// hydrated here, so a stored value the guard accepted but that cannot be
// parsed yields an empty page rather than a redirect.
func (s *Server) renderView(c *gin.Context) {
	m, ok := GetMatch(c)
	if !ok {
		s.respondWithError(c, http.StatusInternalServerError, errors.New("no route match"), "Internal server error")
		return
	}

	s.app.Session.CheckAuth()

	view, err := s.app.Views.Build(m)
	if err != nil {
		if errors.Is(err, views.ErrBadParam) {
			s.respondWithError(c, http.StatusBadRequest, err, "Invalid album id")
			return
		}
		s.respondWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, view)
}
