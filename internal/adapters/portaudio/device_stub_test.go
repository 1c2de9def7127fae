//go:build !portaudio

package portaudio

import (
	"errors"
	"testing"

	"github.com/devbush/lecturenotes/internal/domain"
)

func TestStubDevice(t *testing.T) {
	if Available() {
		t.Error("Available() = true in a build without portaudio")
	}
	if err := NewDevice(44100).Start("/tmp/x.wav"); !errors.Is(err, domain.ErrCaptureUnavailable) {
		t.Errorf("Start() error = %v, want ErrCaptureUnavailable", err)
	}
}
