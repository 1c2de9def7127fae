//go:build !portaudio

package portaudio

import (
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// Available reports whether this build can capture audio.
// Build with -tags portaudio to enable microphone recording.
func Available() bool { return false }

// Device is a placeholder for builds without PortAudio.
type Device struct{}

// NewDevice returns a device whose Start always fails.
func NewDevice(sampleRate int) *Device {
	return &Device{}
}

func (d *Device) Start(path string) error { return domain.ErrCaptureUnavailable }
func (d *Device) Pause() error            { return nil }
func (d *Device) Resume() error           { return nil }
func (d *Device) Stop() error             { return nil }
func (d *Device) AveragePower() float64   { return -160 }

var _ ports.CaptureDevice = (*Device)(nil)
