package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

const (
	incomingDir      = ".incoming"
	transcriptSuffix = "_transcript.txt"
	notesSuffix      = "_notes.md"
	maxNameAttempts  = 1000
)

// FileCache is the durable artifact directory
type FileCache struct {
	fs      afero.Fs
	baseDir string
	logger  *slog.Logger
}

// NewFileCache creates a cache rooted at baseDir on fs
func NewFileCache(fs afero.Fs, baseDir string, logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		fs:      fs,
		baseDir: baseDir,
		logger:  logger,
	}
}

func (c *FileCache) Dir() string {
	return c.baseDir
}

// TempDir is where in-flight recordings and downloads are staged, on the same volume as the cache
func (c *FileCache) TempDir() string {
	return filepath.Join(c.baseDir, incomingDir)
}

// EnsureDirs creates the cache and staging directories
func (c *FileCache) EnsureDirs() error {
	return c.fs.MkdirAll(c.TempDir(), 0755)
}

// Persist writes the three artifacts under a shared base name. Every write is
// attempted; a failed write is reported without undoing the others.
func (c *FileCache) Persist(ctx context.Context, baseName string, audio *domain.AudioSource, transcript, notes string) (*domain.Artifacts, []error) {
	var errs []error

	if err := c.fs.MkdirAll(c.baseDir, 0755); err != nil {
		c.logger.Error("failed to create cache directory", "dir", c.baseDir, "error", err)
	}

	base := c.uniqueBase(baseName)
	artifacts := &domain.Artifacts{BaseName: filepath.Base(base)}

	if audio != nil {
		dst := base + audio.Ext()
		if err := c.placeAudio(audio, dst); err != nil {
			errs = append(errs, err)
		} else {
			artifacts.AudioPath = dst
		}
	}

	transcriptPath := base + transcriptSuffix
	if err := c.writeFile(transcriptPath, transcript); err != nil {
		errs = append(errs, err)
	} else {
		artifacts.TranscriptPath = transcriptPath
	}

	notesPath := base + notesSuffix
	if err := c.writeFile(notesPath, notes); err != nil {
		errs = append(errs, err)
	} else {
		artifacts.NotesPath = notesPath
	}

	for _, err := range errs {
		c.logger.Error("failed to persist artifact", "error", err)
	}
	return artifacts, errs
}

// WriteNotes persists notes alone, for jobs that started from text
func (c *FileCache) WriteNotes(ctx context.Context, baseName, notes string) (*domain.Artifacts, error) {
	if err := c.fs.MkdirAll(c.baseDir, 0755); err != nil {
		return nil, &domain.FileIOError{Op: "mkdir", Path: c.baseDir, Err: err}
	}
	base := c.uniqueBase(baseName)
	path := base + notesSuffix
	if err := c.writeFile(path, notes); err != nil {
		return nil, err
	}
	return &domain.Artifacts{BaseName: filepath.Base(base), NotesPath: path}, nil
}

// uniqueBase appends _2, _3... until no artifact with that base exists
func (c *FileCache) uniqueBase(name string) string {
	base := filepath.Join(c.baseDir, name)
	if !c.baseTaken(base) {
		return base
	}
	for i := 2; i < maxNameAttempts; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !c.baseTaken(candidate) {
			return candidate
		}
	}
	return base
}

func (c *FileCache) baseTaken(base string) bool {
	for _, suffix := range []string{notesSuffix, transcriptSuffix} {
		if ok, _ := afero.Exists(c.fs, base+suffix); ok {
			return true
		}
	}
	// Audio keeps its source extension, so any <base>.<audio ext> counts.
	prefix := filepath.Base(base) + "."
	entries, err := afero.ReadDir(c.fs, filepath.Dir(base))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && domain.IsAudioFile(e.Name()) {
			return true
		}
	}
	return false
}

// placeAudio moves temporary sources and copies imported ones
func (c *FileCache) placeAudio(audio *domain.AudioSource, dst string) error {
	if audio.Temporary {
		if err := c.fs.Rename(audio.Path, dst); err == nil {
			return nil
		}
	}

	if err := c.copyFile(audio.Path, dst); err != nil {
		return err
	}
	if audio.Temporary {
		if err := c.fs.Remove(audio.Path); err != nil {
			c.logger.Warn("failed to remove temporary audio", "path", audio.Path, "error", err)
		}
	}
	return nil
}

func (c *FileCache) copyFile(src, dst string) error {
	in, err := c.fs.Open(src)
	if err != nil {
		return &domain.FileIOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := c.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &domain.FileIOError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = c.fs.Remove(tmp)
		return &domain.FileIOError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = c.fs.Remove(tmp)
		return &domain.FileIOError{Op: "copy", Path: dst, Err: err}
	}
	if err := c.fs.Rename(tmp, dst); err != nil {
		_ = c.fs.Remove(tmp)
		return &domain.FileIOError{Op: "rename", Path: dst, Err: err}
	}
	return nil
}

// writeFile writes to a sibling temp file and renames it into place
func (c *FileCache) writeFile(path, content string) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, []byte(content), 0644); err != nil {
		_ = c.fs.Remove(tmp)
		return &domain.FileIOError{Op: "write", Path: path, Err: err}
	}
	if err := c.fs.Rename(tmp, path); err != nil {
		_ = c.fs.Remove(tmp)
		return &domain.FileIOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// RemoveTemporary deletes a staged source the pipeline no longer needs
func (c *FileCache) RemoveTemporary(audio *domain.AudioSource) error {
	if audio == nil || !audio.Temporary {
		return nil
	}
	if err := c.fs.Remove(audio.Path); err != nil && !os.IsNotExist(err) {
		return &domain.FileIOError{Op: "remove", Path: audio.Path, Err: err}
	}
	return nil
}

func (c *FileCache) List(ctx context.Context) ([]ports.Artifact, error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []ports.Artifact
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		out = append(out, ports.Artifact{
			Name:    entry.Name(),
			Path:    filepath.Join(c.baseDir, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var failed int
	for _, entry := range entries {
		if err := c.fs.RemoveAll(filepath.Join(c.baseDir, entry.Name())); err != nil {
			failed++
			c.logger.Warn("failed to remove cache entry", "name", entry.Name(), "error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d cache entries could not be removed", domain.ErrFileIO, failed)
	}
	return nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	if ok, _ := afero.DirExists(c.fs, c.baseDir); !ok {
		return 0, 0, nil
	}

	err = afero.Walk(c.fs, c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			itemCount++
			totalSize += info.Size()
		}
		return nil
	})
	return itemCount, totalSize, err
}

var _ ports.ArtifactStore = (*FileCache)(nil)
