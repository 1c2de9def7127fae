package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// FileImport produces an existing audio file unchanged
func FileImport(path string) ports.AudioProducer {
	return ports.AudioProducerFunc(func(ctx context.Context) (*domain.AudioSource, error) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, &domain.FileIOError{Op: "resolve", Path: path, Err: err}
		}
		if !domain.IsAudioFile(abs) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filepath.Base(abs))
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, &domain.FileIOError{Op: "stat", Path: abs, Err: err}
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", domain.ErrUnsupportedFile, abs)
		}

		return &domain.AudioSource{
			Path:      abs,
			CreatedAt: info.ModTime(),
			Origin:    domain.OriginImport,
		}, nil
	})
}

// RemoteDownload produces the audio track of link, staged in destDir
func RemoteDownload(downloader ports.MediaDownloader, link *domain.MediaLink, destDir string) ports.AudioProducer {
	return ports.AudioProducerFunc(func(ctx context.Context) (*domain.AudioSource, error) {
		if !downloader.IsAvailable(ctx) {
			return nil, fmt.Errorf("%w: yt-dlp", domain.ErrToolNotFound)
		}
		return downloader.DownloadAudio(ctx, link, destDir)
	})
}
