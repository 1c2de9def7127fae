package domain

import (
	"errors"
	"fmt"
)

var (
	// Dependency errors
	ErrToolNotFound       = errors.New("required tool not found")
	ErrProcessSpawnFailed = errors.New("failed to start process")

	// Transcription errors
	ErrEmptyTranscript = errors.New("transcription produced no text")

	// Note generation errors
	ErrCredentialMissing  = errors.New("API key not set")
	ErrNetwork            = errors.New("network failure")
	ErrProtocol           = errors.New("response had no body")
	ErrMalformedResponse  = errors.New("malformed response from notes API")
	ErrFileIO             = errors.New("file operation failed")
	ErrMediaUnavailable   = errors.New("media is private or unavailable")
	ErrRateLimited        = errors.New("rate limited by remote host")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrCaptureUnavailable = errors.New("audio capture is not available in this build")

	// Rejections: the request was refused, nothing failed
	ErrJobInProgress    = errors.New("a job is already in progress")
	ErrDuplicateRequest = errors.New("transcription already requested")

	ErrInvalidTransition = errors.New("invalid state transition")
)

// IsRejection reports whether err means a request was refused rather than failed.
func IsRejection(err error) bool {
	return errors.Is(err, ErrJobInProgress) || errors.Is(err, ErrDuplicateRequest)
}

// HTTPStatusError is a non-2xx reply from the notes API.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notes API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("notes API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// FileIOError records which artifact failed to persist.
type FileIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error {
	return e.Err
}

func (e *FileIOError) Is(target error) bool {
	return target == ErrFileIO
}

// StageError tags a pipeline failure with the state it happened in.
type StageError struct {
	Stage JobState
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Describe renders err as the text shown to the user in place of notes.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		return "Error: " + statusErr.Error()
	case errors.Is(err, ErrToolNotFound):
		return "Error: " + err.Error() + " (install the missing dependency and try again)"
	case errors.Is(err, ErrCredentialMissing):
		return "Error: no API key configured (run `lecturenotes key set`)"
	default:
		return "Error: " + err.Error()
	}
}
