// Package server is the HTTP front of the photo album client. Page routes
// pass through the navigation guard and answer with JSON view models; /api
// routes drive the session and the gallery.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/app"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	app     *app.App
	logger  zerolog.Logger
	version string
}

// New creates a new server instance
func New(a *app.App, zlog zerolog.Logger, version string) *Server {
	server := &Server{
		app:     a,
		logger:  zlog.With().Str("component", "web").Logger(),
		version: version,
	}

	server.setupRouter()

	return server
}

// Handler exposes the gin engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	origins := s.app.Config.Web.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (not gated)
	s.router.GET("/health", s.healthCheck)

	// Pages, one per declared route, each behind the guard
	for _, route := range s.app.Table.Routes() {
		s.router.GET(route.Path, s.guardMiddleware(), s.renderView)
	}

	// Session endpoints
	auth := s.router.Group("/api/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/logout", s.logout)
		auth.GET("/me", s.currentUser)
	}

	// Gallery actions need a session
	api := s.router.Group("/api")
	api.Use(s.sessionMiddleware())
	{
		api.GET("/search", s.search)

		api.POST("/photos", s.uploadPhoto)
		api.PUT("/photos/:id", s.updatePhoto)
		api.PUT("/photos/:id/album", s.movePhoto)
		api.POST("/photos/:id/trash", s.trashPhoto)
		api.POST("/photos/:id/restore", s.restorePhoto)
		api.DELETE("/photos/:id", s.deletePhoto)

		api.POST("/albums", s.createAlbum)
		api.PUT("/albums/:id", s.updateAlbum)
		api.DELETE("/albums/:id", s.deleteAlbum)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "photoalbum-web",
		"version":   s.version,
	})
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	addr := s.app.Config.Web.Address

	// No write timeout: API calls behind a handler are not bounded either
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
