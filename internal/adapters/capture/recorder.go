// Package capture drives a microphone device through a record/pause/stop
// lifecycle and publishes a smoothed input level while recording.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// State is the recorder lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

const (
	// DefaultSampleInterval is how often the meter reads the device
	DefaultSampleInterval = 50 * time.Millisecond
	// DefaultSettleDelay lets the device flush its last buffer before the file is read
	DefaultSettleDelay = 500 * time.Millisecond

	smoothing = 0.7
	meterGain = 7.0
)

// Recorder is a single-use microphone session
type Recorder struct {
	device         ports.CaptureDevice
	dir            string
	sampleInterval time.Duration
	settleDelay    time.Duration
	onLevel        func(float64)
	now            func() time.Time
	logger         *slog.Logger

	mu        sync.Mutex
	state     State
	path      string
	createdAt time.Time
	smoothed  float64
	level     float64
	stopMeter chan struct{}
	stopped   chan struct{}
}

// Option configures a Recorder
type Option func(*Recorder)

// WithSettleDelay overrides the post-stop delay
func WithSettleDelay(d time.Duration) Option {
	return func(r *Recorder) {
		r.settleDelay = d
	}
}

// WithSampleInterval overrides the meter interval
func WithSampleInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.sampleInterval = d
		}
	}
}

// WithLevelCallback receives every published level
func WithLevelCallback(fn func(level float64)) Option {
	return func(r *Recorder) {
		r.onLevel = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates an idle recorder writing into dir
func NewRecorder(device ports.CaptureDevice, dir string, opts ...Option) *Recorder {
	r := &Recorder{
		device:         device,
		dir:            dir,
		sampleInterval: DefaultSampleInterval,
		settleDelay:    DefaultSettleDelay,
		now:            time.Now,
		logger:         slog.Default(),
		state:          StateIdle,
		stopped:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordingFileName names a capture started at t
func RecordingFileName(t time.Time) string {
	return "lecture_" + t.Format("20060102_150405") + ".wav"
}

func invalid(from State, op string) error {
	return fmt.Errorf("%w: cannot %s while %s", domain.ErrInvalidTransition, op, from)
}

// Start begins recording. Only valid from Idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return invalid(r.state, "start")
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return &domain.FileIOError{Op: "mkdir", Path: r.dir, Err: err}
	}

	r.createdAt = r.now()
	r.path = filepath.Join(r.dir, RecordingFileName(r.createdAt))
	if err := r.device.Start(r.path); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	r.state = StateRecording
	r.stopMeter = make(chan struct{})
	go r.runMeter(r.stopMeter)

	r.logger.Info("recording started", "path", r.path)
	return nil
}

// Pause suspends recording. A no-op when already paused.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StatePaused:
		return nil
	case StateRecording:
		if err := r.device.Pause(); err != nil {
			return fmt.Errorf("pause capture: %w", err)
		}
		r.state = StatePaused
		return nil
	default:
		return invalid(r.state, "pause")
	}
}

// Resume continues a paused recording. A no-op when already recording.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRecording:
		return nil
	case StatePaused:
		if err := r.device.Resume(); err != nil {
			return fmt.Errorf("resume capture: %w", err)
		}
		r.state = StateRecording
		return nil
	default:
		return invalid(r.state, "resume")
	}
}

// Stop finalizes the recording. Invalid from Idle, a no-op once stopped.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateStopped:
		return nil
	case StateRecording, StatePaused:
	default:
		return invalid(r.state, "stop")
	}

	close(r.stopMeter)
	err := r.device.Stop()
	r.state = StateStopped
	r.level = 0
	close(r.stopped)

	if err != nil {
		return fmt.Errorf("stop capture: %w", err)
	}
	r.logger.Info("recording stopped", "path", r.path)
	return nil
}

// State returns the current lifecycle state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Paused reports whether recording is paused
func (r *Recorder) Paused() bool {
	return r.State() == StatePaused
}

// Level returns the last published meter level in [0,1]
func (r *Recorder) Level() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// Elapsed returns time since Start, or zero before it
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createdAt.IsZero() {
		return 0
	}
	return r.now().Sub(r.createdAt)
}

// Produce waits for Stop, lets the device settle and hands the file over.
// Cancelling ctx before Stop aborts the recording and discards the file.
func (r *Recorder) Produce(ctx context.Context) (*domain.AudioSource, error) {
	select {
	case <-r.stopped:
	case <-ctx.Done():
		if r.State() != StateIdle {
			_ = r.Stop()
			r.discard()
		}
		return nil, ctx.Err()
	}

	if r.settleDelay > 0 {
		select {
		case <-time.After(r.settleDelay):
		case <-ctx.Done():
			r.discard()
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	path, createdAt := r.path, r.createdAt
	r.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return nil, &domain.FileIOError{Op: "read", Path: path, Err: err}
	}

	return &domain.AudioSource{
		Path:      path,
		CreatedAt: createdAt,
		Origin:    domain.OriginMicrophone,
		Temporary: true,
	}, nil
}

func (r *Recorder) discard() {
	r.mu.Lock()
	path := r.path
	r.mu.Unlock()
	if path != "" {
		_ = os.Remove(path)
	}
}

func (r *Recorder) runMeter(stop <-chan struct{}) {
	ticker := time.NewTicker(r.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sample()
		}
	}
}

func (r *Recorder) sample() {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	r.smoothed, r.level = MeterLevel(r.smoothed, r.device.AveragePower())
	level := r.level
	r.mu.Unlock()

	if r.onLevel != nil {
		r.onLevel(level)
	}
}

// MeterLevel folds one power reading (dBFS) into the smoothed meter and
// returns the new smoothed value and the display level in [0,1].
func MeterLevel(prevSmoothed, powerDB float64) (smoothed, level float64) {
	linear := math.Pow(10, (powerDB+5)/20)
	smoothed = prevSmoothed*smoothing + linear*(1-smoothing)
	level = math.Max(0, math.Min(smoothed*meterGain, 1))
	return smoothed, level
}

var _ ports.AudioProducer = (*Recorder)(nil)
