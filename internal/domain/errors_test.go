package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestIsRejection(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrJobInProgress, true},
		{fmt.Errorf("start: %w", ErrDuplicateRequest), true},
		{ErrToolNotFound, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsRejection(tt.err); got != tt.want {
			t.Errorf("IsRejection(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestFileIOError(t *testing.T) {
	err := &FileIOError{Op: "write", Path: "/tmp/x_notes.md", Err: os.ErrPermission}

	if !errors.Is(err, ErrFileIO) {
		t.Error("errors.Is(err, ErrFileIO) = false")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("errors.Is(err, os.ErrPermission) = false")
	}
	if !strings.Contains(err.Error(), "/tmp/x_notes.md") {
		t.Errorf("Error() = %q, want path", err.Error())
	}
}

func TestHTTPStatusError(t *testing.T) {
	err := error(&HTTPStatusError{StatusCode: 429, Message: "rate limited"})

	var statusErr *HTTPStatusError
	if !errors.As(fmt.Errorf("generate: %w", err), &statusErr) {
		t.Fatal("errors.As failed")
	}
	if statusErr.StatusCode != 429 || statusErr.Message != "rate limited" {
		t.Errorf("got %+v", statusErr)
	}
	if got := (&HTTPStatusError{StatusCode: 500}).Error(); got != "notes API returned HTTP 500" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStageError(t *testing.T) {
	err := &StageError{Stage: JobTranscribing, Err: ErrEmptyTranscript}
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Error("StageError does not unwrap")
	}
	if !strings.HasPrefix(err.Error(), "transcribing:") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDescribe(t *testing.T) {
	if Describe(nil) != "" {
		t.Error("Describe(nil) should be empty")
	}
	got := Describe(&StageError{Stage: JobGeneratingNotes, Err: &HTTPStatusError{StatusCode: 429, Message: "rate limited"}})
	if !strings.Contains(got, "429") || !strings.Contains(got, "rate limited") {
		t.Errorf("Describe() = %q", got)
	}
	if !strings.HasPrefix(Describe(ErrCredentialMissing), "Error:") {
		t.Error("Describe() missing prefix")
	}
}
