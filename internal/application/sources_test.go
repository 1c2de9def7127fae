package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devbush/lecturenotes/internal/domain"
)

func TestFileImport(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "week3.m4a")
	if err := os.WriteFile(audio, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := FileImport(audio).Produce(context.Background())
	if err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if src.Path != audio || src.Origin != domain.OriginImport || src.Temporary {
		t.Errorf("source = %+v", src)
	}
}

func TestFileImport_Errors(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(notes, []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}
	folder := filepath.Join(dir, "folder.wav")
	if err := os.Mkdir(folder, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unsupported extension", notes, domain.ErrUnsupportedFile},
		{"missing file", filepath.Join(dir, "gone.mp3"), domain.ErrFileIO},
		{"directory", folder, domain.ErrUnsupportedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FileImport(tt.path).Produce(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Produce() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type mockDownloader struct {
	available bool
	gotDir    string
}

func (m *mockDownloader) DownloadAudio(ctx context.Context, link *domain.MediaLink, destDir string) (*domain.AudioSource, error) {
	m.gotDir = destDir
	return &domain.AudioSource{Path: filepath.Join(destDir, "yt_audio.wav"), Origin: domain.OriginRemoteDownload, Temporary: true}, nil
}

func (m *mockDownloader) IsAvailable(ctx context.Context) bool { return m.available }

func TestRemoteDownload(t *testing.T) {
	link := &domain.MediaLink{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}

	dl := &mockDownloader{available: true}
	src, err := RemoteDownload(dl, link, "/cache/.incoming").Produce(context.Background())
	if err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if !src.Temporary || dl.gotDir != "/cache/.incoming" {
		t.Errorf("source = %+v, dir = %s", src, dl.gotDir)
	}

	_, err = RemoteDownload(&mockDownloader{}, link, "/tmp").Produce(context.Background())
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Errorf("unavailable downloader error = %v", err)
	}
}
