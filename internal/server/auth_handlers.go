package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/models"
)

// CredentialsRequest is the login and register request body
type CredentialsRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MeResponse describes the current session
type MeResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

func (s *Server) bindCredentials(c *gin.Context) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Phone and password are required"))
		return req, false
	}
	return req, true
}

// login answers 200 with the user, or 401 with the failure message
func (s *Server) login(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}

	res := s.app.Session.Login(req.Phone, req.Password)
	if !res.Success {
		status := http.StatusUnauthorized
		if res.Message == models.MsgNetworkError {
			status = http.StatusBadGateway
		}
		c.JSON(status, res)
		return
	}

	c.JSON(http.StatusOK, res)
}

// register creates an account without logging in
func (s *Server) register(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}

	res := s.app.Session.Register(req.Phone, req.Password)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// logout always succeeds
func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Session.Logout())
}

func (s *Server) currentUser(c *gin.Context) {
	authenticated := s.app.Session.IsLoggedIn()
	c.JSON(http.StatusOK, MeResponse{
		Authenticated: authenticated,
		User:          s.app.Session.GetUser(),
	})
}
