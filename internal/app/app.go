// Package app wires the session, gallery and router around one storage
// backend and one API client. The CLI and the web front both start here.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/config"
	"github.com/LT1923/4c2025/internal/gallery"
	"github.com/LT1923/4c2025/internal/router"
	"github.com/LT1923/4c2025/internal/session"
	"github.com/LT1923/4c2025/internal/storage"
	"github.com/LT1923/4c2025/internal/views"
)

// App holds the process-wide components. There is one per process.
type App struct {
	Config  *config.Config
	Storage storage.Storage
	Client  *client.Client
	Session *session.Store
	Gallery *gallery.Gallery
	Table   *router.Table
	Guard   *router.Guard
	Router  *router.Router
	Views   *views.Builder
	Logger  zerolog.Logger
}

// New opens the configured storage backend and builds the components on top of it
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := storage.Open(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := NewWithStorage(cfg, store, log)
	if err != nil {
		storage.Close(store)
		return nil, err
	}
	return a, nil
}

// NewWithStorage builds the components on an already opened backend
func NewWithStorage(cfg *config.Config, store storage.Storage, log zerolog.Logger) (*App, error) {
	table, err := router.NewTable(router.DefaultRoutes())
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}

	apiClient := client.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	sess := session.New(apiClient, store, log)
	g := gallery.New(apiClient, sess, log)
	guard := router.NewGuard(store, log)

	a := &App{
		Config:  cfg,
		Storage: store,
		Client:  apiClient,
		Session: sess,
		Gallery: g,
		Table:   table,
		Guard:   guard,
		Router:  router.New(table, guard, log),
		Views:   views.NewBuilder(g, sess),
		Logger:  log,
	}

	// Drop an unreadable stored session left by an earlier run
	if a.Session.CheckAuth() {
		log.Debug().Int64("user_id", a.Session.GetUser().ID).Msg("Restored session")
	}

	return a, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return storage.Close(a.Storage)
}
