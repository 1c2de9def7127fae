// Package credentials keeps the notes API key in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/99designs/keyring"

	"github.com/devbush/lecturenotes/internal/ports"
)

const (
	serviceName = "lecturenotes"
	apiKeyName  = "openai-api-key"
)

// Store resolves the API key: a user override from the keyring first,
// then the bundled default.
type Store struct {
	ring    keyring.Keyring
	bundled string
}

// Open opens the platform keyring, falling back to a file store under fileDir.
func Open(fileDir, bundled string) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(serviceName),
		KeychainName:     "login",
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewStore(ring, bundled), nil
}

// NewStore wraps an existing keyring.
func NewStore(ring keyring.Keyring, bundled string) *Store {
	return &Store{ring: ring, bundled: strings.TrimSpace(bundled)}
}

func (s *Store) override() (string, error) {
	item, err := s.ring.Get(apiKeyName)
	if err != nil {
		if notStored(err) {
			return "", nil
		}
		return "", fmt.Errorf("read API key: %w", err)
	}
	return strings.TrimSpace(string(item.Data)), nil
}

// APIKey returns the override, else the bundled default, else "".
func (s *Store) APIKey() (string, error) {
	key, err := s.override()
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}
	return s.bundled, nil
}

// SetAPIKey stores a user override. An empty key clears it.
func (s *Store) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.ClearAPIKey()
	}
	err := s.ring.Set(keyring.Item{
		Key:         apiKeyName,
		Data:        []byte(key),
		Label:       "lecturenotes API key",
		Description: "API key used to generate lecture notes",
	})
	if err != nil {
		return fmt.Errorf("store API key: %w", err)
	}
	return nil
}

// ClearAPIKey removes the override so the bundled default applies again.
func (s *Store) ClearAPIKey() error {
	err := s.ring.Remove(apiKeyName)
	if err != nil && !notStored(err) {
		return fmt.Errorf("clear API key: %w", err)
	}
	return nil
}

// notStored matches a missing item. The file backend reports it as a plain
// os error rather than ErrKeyNotFound.
func notStored(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}

// HasOverride reports whether a user key is stored.
func (s *Store) HasOverride() bool {
	key, err := s.override()
	return err == nil && key != ""
}

// HasBundled reports whether a default key was compiled in.
func (s *Store) HasBundled() bool {
	return s.bundled != ""
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

var _ ports.CredentialStore = (*Store)(nil)
