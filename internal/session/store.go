// Package session holds the single source of truth for who is logged in.
//
// A Store is constructed once per process and handed by reference to the
// navigation and UI layers. Its in-memory user is mutated only by Store
// operations and mirrored into durable storage under StorageKey, so a new
// process can pick the session back up with CheckAuth.
//
// No Store method returns an error: transport, server and storage problems
// are logged and folded into the returned result.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/storage"
)

// StorageKey is the durable storage key holding the JSON user record
const StorageKey = "user"

// AuthAPI is the part of the API client the store depends on
type AuthAPI interface {
	Login(phone, password string) (*client.LoginResponse, error)
	Register(phone, password string) (*client.RegisterResponse, error)
}

// LoginResult is the outcome of Login
type LoginResult struct {
	models.Result
	User *models.User `json:"user,omitempty"`
}

// RegisterResult is the outcome of Register
type RegisterResult struct {
	models.Result
	UserID int64 `json:"user_id,omitempty"`
}

// Store is the process-wide session
type Store struct {
	api     AuthAPI
	storage storage.Storage
	logger  zerolog.Logger

	// mu protects user for memory safety only; operations are not serialized
	// and concurrent logins race with last-write-wins.
	mu   sync.RWMutex
	user *models.User
}

// New creates an empty store. It does not read storage; call CheckAuth for that.
func New(api AuthAPI, store storage.Storage, log zerolog.Logger) *Store {
	return &Store{
		api:     api,
		storage: store,
		logger:  log.With().Str("component", "session").Logger(),
	}
}

// Login authenticates against the API and, on success, keeps the returned
// user in memory and in durable storage
func (s *Store) Login(phone, password string) LoginResult {
	resp, err := s.api.Login(phone, password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Login request failed")
		return LoginResult{Result: models.Fail(authFailureMessage(err))}
	}

	s.setUser(resp.User)
	s.persist(resp.User)

	s.logger.Info().Int64("user_id", resp.User.ID).Msg("Logged in")
	return LoginResult{Result: models.OK(), User: resp.User}
}

// Register creates an account. The session is left untouched.
func (s *Store) Register(phone, password string) RegisterResult {
	resp, err := s.api.Register(phone, password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Register request failed")
		return RegisterResult{Result: models.Fail(authFailureMessage(err))}
	}

	return RegisterResult{
		Result: models.Result{Success: true, Message: resp.Message},
		UserID: resp.UserID,
	}
}

// Logout forgets the session in memory and in storage. It always succeeds.
func (s *Store) Logout() models.Result {
	s.setUser(nil)

	if err := s.storage.Remove(StorageKey); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove stored session")
	}

	return models.OK()
}

// CheckAuth restores the session from storage when memory holds none and
// reports whether a session exists. An unparseable stored value is removed.
func (s *Store) CheckAuth() bool {
	if s.GetUser() == nil {
		s.hydrate()
	}
	return s.IsAuthenticated()
}

// GetUser returns the in-memory user without consulting storage
func (s *Store) GetUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsLoggedIn always goes through CheckAuth and may therefore hydrate from
// storage, unlike GetUser and IsAuthenticated which only read memory
func (s *Store) IsLoggedIn() bool {
	return s.CheckAuth()
}

// IsAuthenticated reports whether a user is held in memory
func (s *Store) IsAuthenticated() bool {
	return s.GetUser() != nil
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// persist writes u to storage. Memory stays authoritative if the write fails.
func (s *Store) persist(u *models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode session")
		return
	}

	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist session")
	}
}

func (s *Store) hydrate() {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read stored session")
		return
	}
	if !ok || raw == "" {
		return
	}

	// Only a JSON object is a user record. Scalars and arrays parse as JSON
	// but are discarded like any other unreadable value.
	var u *models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Debug().Err(err).Msg("Discarding unparseable stored session")
		if err := s.storage.Remove(StorageKey); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to remove stored session")
		}
		return
	}

	// A stored JSON null parses but is not a session
	if u == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		s.user = u
	}
}

// authFailureMessage maps a login/register error to what the user sees.
// The HTTP status wins over any body the server sent with it.
func authFailureMessage(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusInternalServerError {
			return models.MsgInternalServerError
		}
		return fmt.Sprintf(models.MsgServerErrorFormat, statusErr.StatusCode)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return models.MsgNetworkError
}
