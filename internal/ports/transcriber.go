package ports

import (
	"context"

	"github.com/devbush/lecturenotes/internal/domain"
)

// Transcriber handles speech-to-text conversion
type Transcriber interface {
	// Transcribe runs the engine over one audio file, reporting progress in emission order
	Transcribe(ctx context.Context, audioPath string, onProgress func(domain.ProgressEvent)) (*domain.Transcript, error)
}

// PathResolver locates external executables outside the caller's own PATH
type PathResolver interface {
	// ResolveInterpreter returns the speech engine interpreter, or "" when absent
	ResolveInterpreter(ctx context.Context) string

	// ResolveTool returns an absolute path for name, or "" when absent
	ResolveTool(ctx context.Context, name string) string

	// SubprocessEnv returns the environment external tools should run with
	SubprocessEnv() []string
}
