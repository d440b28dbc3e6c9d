package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const KeyringService = "photoalbum"

// Keyring stores items in the OS keychain/credential manager
type Keyring struct {
	service string
}

func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

func (k *Keyring) Get(key string) (string, bool, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load %q from keyring: %w", key, err)
	}
	return value, true, nil
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to save %q to keyring: %w", key, err)
	}
	return nil
}

func (k *Keyring) Remove(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %q from keyring: %w", key, err)
	}
	return nil
}
