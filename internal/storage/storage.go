// Package storage provides the durable, string-valued key-value store the client
// persists its session into. Backends mirror the browser's local storage contract:
// synchronous get/set/remove by key, no cross-process locking, last write wins.
package storage

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/config"
)

// Storage is a durable key-value store
type Storage interface {
	// Get returns the value under key and whether it was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error
}

// Closer is implemented by backends holding connections
type Closer interface {
	Close() error
}

var ErrUnknownBackend = errors.New("unknown storage backend")

// Open returns the backend selected by cfg
func Open(cfg config.StorageConfig, log zerolog.Logger) (Storage, error) {
	log.Debug().Str("backend", cfg.Backend).Msg("Opening durable storage")

	switch cfg.Backend {
	case "file":
		return NewFile(cfg.Path), nil
	case "keyring":
		return NewKeyring(KeyringService), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedis(client, RedisKeyPrefix), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Close releases backend resources if the backend holds any
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
