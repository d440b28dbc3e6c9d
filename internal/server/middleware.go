package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/router"
)

const matchKey = "route_match"

func setMatch(c *gin.Context, m router.Match) {
	c.Set(matchKey, m)
}

// GetMatch returns the route resolved by the guard middleware
func GetMatch(c *gin.Context) (router.Match, bool) {
	v, exists := c.Get(matchKey)
	if !exists {
		return router.Match{}, false
	}
	m, ok := v.(router.Match)
	return m, ok
}

func (s *Server) respondWithError(c *gin.Context, statusCode int, err error, message string) {
	s.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(statusCode, models.Fail(message))
	c.Abort()
}

// guardMiddleware runs the navigation guard on a page request. A redirect is
// answered with 302 so the client replaces the location instead of stacking it.
func (s *Server) guardMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := s.app.Table.Resolve(c.Request.URL.Path)
		if err != nil {
			if errors.Is(err, router.ErrRouteNotFound) {
				s.respondWithError(c, http.StatusNotFound, err, "Page not found")
				return
			}
			s.logger.Error().Err(err).Msg("Failed to resolve route")
			s.respondWithError(c, http.StatusInternalServerError, err, "Internal server error")
			return
		}

		decision := s.app.Guard.Check(m)
		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Redirect)
			c.Abort()
			return
		}

		setMatch(c, m)
		c.Next()
	}
}

// sessionMiddleware rejects gallery actions when nobody is logged in
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.app.Session.CheckAuth() {
			s.logger.Debug().Str("path", c.Request.URL.Path).Msg("Rejected action without session")
			s.respondWithError(c, http.StatusUnauthorized, errors.New("no session"), models.MsgNotLoggedIn)
			return
		}
		c.Next()
	}
}
