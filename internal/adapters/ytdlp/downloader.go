package ytdlp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devbush/lecturenotes/internal/adapters/process"
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

const audioFormat = "wav"

// Downloader implements MediaDownloader using yt-dlp
type Downloader struct {
	runner   *process.Runner
	resolver ports.PathResolver
	binDir   string
	client   *http.Client
	logger   *slog.Logger
}

// NewDownloader creates a new yt-dlp downloader. binDir is where Install places the binary.
func NewDownloader(runner *process.Runner, resolver ports.PathResolver, binDir string, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		runner:   runner,
		resolver: resolver,
		binDir:   binDir,
		client:   http.DefaultClient,
		logger:   logger,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

// GetBinaryPath returns the resolved yt-dlp path, or "" when it is not installed
func (d *Downloader) GetBinaryPath(ctx context.Context) string {
	return d.resolver.ResolveTool(ctx, binaryName())
}

func (d *Downloader) IsAvailable(ctx context.Context) bool {
	return d.GetBinaryPath(ctx) != ""
}

func buildArgs(outputTemplate, url string) []string {
	return []string{
		"-f", "bestaudio",
		"-x",
		"--audio-format", audioFormat,
		"--no-playlist",
		"-o", outputTemplate,
		url,
	}
}

// DownloadAudio extracts the best available audio track of link into destDir.
// Success is judged by the output file existing once yt-dlp exits, not by its exit code.
// The returned source is temporary and owned by the caller.
func (d *Downloader) DownloadAudio(ctx context.Context, link *domain.MediaLink, destDir string) (*domain.AudioSource, error) {
	binPath := d.GetBinaryPath(ctx)
	if binPath == "" {
		return nil, fmt.Errorf("%w: yt-dlp", domain.ErrToolNotFound)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &domain.FileIOError{Op: "mkdir", Path: destDir, Err: err}
	}

	base := filepath.Join(destDir, "yt_audio_"+uuid.NewString())
	outputPath := base + "." + audioFormat

	var (
		mu     sync.Mutex
		stderr strings.Builder
	)
	p, err := d.runner.Start(ctx, process.Command{
		Path: binPath,
		Args: buildArgs(base+".%(ext)s", link.URL),
		Env:  d.resolver.SubprocessEnv(),
	}, process.Handlers{
		OnStdoutLine: func(line string) {
			d.logger.Debug("yt-dlp", "stdout", line)
		},
		OnStderrChunk: func(chunk []byte) {
			mu.Lock()
			stderr.Write(chunk)
			mu.Unlock()
		},
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("downloading audio", "url", link.URL, "dest", outputPath)
	status := p.Wait()

	if info, err := os.Stat(outputPath); err == nil && !info.IsDir() {
		if status.Code != 0 {
			d.logger.Warn("yt-dlp exited nonzero but produced audio", "code", status.Code)
		}
		return &domain.AudioSource{
			Path:      outputPath,
			CreatedAt: time.Now(),
			Origin:    domain.OriginRemoteDownload,
			Temporary: true,
		}, nil
	}

	// Clear any partial fragments yt-dlp left behind
	if leftovers, _ := filepath.Glob(base + ".*"); len(leftovers) > 0 {
		for _, f := range leftovers {
			_ = os.Remove(f)
		}
	}

	return nil, classifyFailure(stderr.String(), status.Code)
}

func classifyFailure(stderr string, code int) error {
	switch {
	case strings.Contains(stderr, "Private video"),
		strings.Contains(stderr, "Video unavailable"),
		strings.Contains(stderr, "This video is unavailable"):
		return domain.ErrMediaUnavailable
	case strings.Contains(stderr, "429"), strings.Contains(stderr, "rate-limit"), strings.Contains(stderr, "rate limit"):
		return domain.ErrRateLimited
	}

	msg := lastLine(stderr)
	if msg == "" {
		msg = "no audio file produced"
	}
	return fmt.Errorf("yt-dlp failed (exit code %d): %s", code, msg)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func (d *Downloader) getDownloadURL() string {
	base := "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"

	switch runtime.GOOS {
	case "windows":
		return base + "yt-dlp.exe"
	case "darwin":
		return base + "yt-dlp_macos"
	default:
		return base + "yt-dlp"
	}
}

// Install downloads the latest yt-dlp release into the bin directory
func (d *Downloader) Install(ctx context.Context, progress func(downloaded, total int64)) (string, error) {
	if err := os.MkdirAll(d.binDir, 0755); err != nil {
		return "", err
	}

	destPath := filepath.Join(d.binDir, binaryName())
	tempPath := destPath + ".tmp"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.getDownloadURL(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download yt-dlp: HTTP %d", resp.StatusCode)
	}

	out, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return "", err
	}

	// Track success to clean up partial downloads on failure
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tempPath)
		}
	}()

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return "", werr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, resp.ContentLength)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return "", err
	}

	success = true
	return destPath, nil
}

// Update runs yt-dlp's self-updater
func (d *Downloader) Update(ctx context.Context) error {
	binPath := d.GetBinaryPath(ctx)
	if binPath == "" {
		return fmt.Errorf("%w: yt-dlp", domain.ErrToolNotFound)
	}

	p, err := d.runner.Start(ctx, process.Command{Path: binPath, Args: []string{"-U"}}, process.Handlers{
		OnStdoutLine: func(line string) {
			d.logger.Info("yt-dlp update", "output", line)
		},
	})
	if err != nil {
		return err
	}
	if status := p.Wait(); status.Code != 0 {
		return fmt.Errorf("yt-dlp update failed (exit code %d)", status.Code)
	}
	return nil
}

var _ ports.MediaDownloader = (*Downloader)(nil)
