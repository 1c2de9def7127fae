package ports

import (
	"context"

	"github.com/devbush/lecturenotes/internal/domain"
)

// MediaDownloader fetches the audio track of a remote recording.
type MediaDownloader interface {
	// DownloadAudio extracts audio from link into destDir and returns a temporary source.
	DownloadAudio(ctx context.Context, link *domain.MediaLink, destDir string) (*domain.AudioSource, error)

	// IsAvailable checks if the downloader binary can be resolved.
	IsAvailable(ctx context.Context) bool
}

// AudioProducer yields one audio file for the pipeline.
type AudioProducer interface {
	Produce(ctx context.Context) (*domain.AudioSource, error)
}

// AudioProducerFunc adapts a function to AudioProducer.
type AudioProducerFunc func(ctx context.Context) (*domain.AudioSource, error)

func (f AudioProducerFunc) Produce(ctx context.Context) (*domain.AudioSource, error) {
	return f(ctx)
}

// CaptureDevice records microphone input to a file.
type CaptureDevice interface {
	// Start begins writing audio to path.
	Start(path string) error
	Pause() error
	Resume() error
	// Stop finalizes the file.
	Stop() error
	// AveragePower returns the current input level in dBFS (<= 0).
	AveragePower() float64
}
