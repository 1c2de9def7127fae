package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Origin identifies which acquisition source produced an audio file
type Origin string

const (
	OriginMicrophone     Origin = "microphone"
	OriginImport         Origin = "import"
	OriginRemoteDownload Origin = "remoteDownload"
)

// AudioSource is a file-system reference to recorded or imported audio
type AudioSource struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Origin    Origin    `json:"origin"`
	// Temporary sources are owned by the pipeline and removed or moved when it is done with them.
	Temporary bool `json:"temporary"`
}

// Ext returns the lowercased file extension, defaulting to .m4a
func (a *AudioSource) Ext() string {
	ext := strings.ToLower(filepath.Ext(a.Path))
	if ext == "" {
		return ".m4a"
	}
	return ext
}

var audioExtensions = map[string]bool{
	".m4a": true, ".mp3": true, ".wav": true, ".aac": true, ".flac": true,
	".ogg": true, ".opus": true, ".webm": true, ".mp4": true, ".mov": true,
	".aiff": true, ".caf": true,
}

// IsAudioFile reports whether path has an extension the transcription engine accepts
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}
