package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_Stderr(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		name      string
		opts      Options
		wantInfo  bool
		wantWarn  bool
		wantDebug bool
	}{
		{"default", Options{}, false, true, false},
		{"verbose", Options{Verbose: true}, true, true, true},
		{"quiet", Options{Quiet: true}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closer, err := Setup(tt.opts, &buf)
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			defer closer.Close()

			logger.Debug("dbg")
			logger.Info("inf")
			logger.Warn("wrn")

			out := buf.String()
			if got := strings.Contains(out, "dbg"); got != tt.wantDebug {
				t.Errorf("debug logged = %v", got)
			}
			if got := strings.Contains(out, "inf"); got != tt.wantInfo {
				t.Errorf("info logged = %v", got)
			}
			if got := strings.Contains(out, "wrn"); got != tt.wantWarn {
				t.Errorf("warn logged = %v", got)
			}
		})
	}
}

func TestSetup_File(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := filepath.Join(t.TempDir(), "logs")
	var stderr bytes.Buffer

	logger, closer, err := Setup(Options{ToFile: true, Dir: dir}, &stderr)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	logger.Info("job started", "job", "abc")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "job=abc") {
		t.Errorf("log file = %q", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr got output while logging to file: %q", stderr.String())
	}
}
