package ports

import (
	"context"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
)

// Artifact is one file in the cache directory.
type Artifact struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// ArtifactStore persists finished job outputs under one shared base name.
type ArtifactStore interface {
	// Persist moves or copies the audio and writes transcript and notes.
	// Each write is attempted; failures are returned per file and nothing is rolled back.
	Persist(ctx context.Context, baseName string, audio *domain.AudioSource, transcript, notes string) (*domain.Artifacts, []error)

	// WriteNotes persists notes alone, for jobs that started from text.
	WriteNotes(ctx context.Context, baseName, notes string) (*domain.Artifacts, error)

	// RemoveTemporary deletes a staged source once nothing downstream needs it.
	RemoveTemporary(audio *domain.AudioSource) error

	// TempDir returns a scratch directory for in-flight audio.
	TempDir() string

	// List returns all artifacts, newest first.
	List(ctx context.Context) ([]Artifact, error)

	// Clear removes everything in the cache directory.
	Clear(ctx context.Context) error

	// Dir returns the cache directory path.
	Dir() string

	// Stats returns cache statistics: file count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}
