package whisper

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

//go:embed engine/transcribe.py
var engineScript []byte

// ScriptName is the file name the engine script is installed under
const ScriptName = "transcribe.py"

// InstallScript writes the bundled engine script into dir, rewriting it only when stale
func InstallScript(dir string) (string, error) {
	path := filepath.Join(dir, ScriptName)

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, engineScript) {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create engine directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(engineScript)); err != nil {
		return "", fmt.Errorf("failed to install engine script: %w", err)
	}
	return path, nil
}
