package ports

import (
	"context"

	"github.com/devbush/lecturenotes/internal/domain"
)

// NoteGenerator turns a transcript into study notes.
type NoteGenerator interface {
	Generate(ctx context.Context, transcript string, prompt domain.PromptTemplate, apiKey string) (*domain.NoteResult, error)
}

// CredentialStore resolves the notes API key.
type CredentialStore interface {
	// APIKey returns the user override, else the bundled default, else "".
	APIKey() (string, error)

	// SetAPIKey stores a user override.
	SetAPIKey(key string) error

	// ClearAPIKey removes the user override.
	ClearAPIKey() error

	// HasOverride reports whether a user key is stored.
	HasOverride() bool
}
