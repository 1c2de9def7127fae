package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// FileName is the log file written while the interactive UI owns the terminal
const FileName = "lecturenotes.log"

// Options controls where logs go and how much is kept
type Options struct {
	Verbose bool
	Quiet   bool
	// ToFile sends logs to Dir/FileName instead of stderr
	ToFile bool
	Dir    string
}

// Setup installs the default slog logger and returns it with a closer for any opened file
func Setup(opts Options, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level := slog.LevelWarn
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelError
	}

	out := stderr
	var closer io.Closer = nopCloser{}
	if opts.ToFile {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
		if level > slog.LevelInfo && !opts.Quiet {
			level = slog.LevelInfo
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closer, nil
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
