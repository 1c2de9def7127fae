//go:build portaudio

// Package portaudio records the default input device to a WAV file.
package portaudio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/youpy/go-wav"

	"github.com/devbush/lecturenotes/internal/ports"
)

const (
	channels        = 1
	bitsPerSample   = 16
	framesPerBuffer = 1024
	silenceDB       = -160.0
)

// Available reports whether this build can capture audio
func Available() bool { return true }

// Device captures mono 16-bit PCM from the default input
type Device struct {
	sampleRate int

	mu      sync.Mutex
	stream  *portaudio.Stream
	path    string
	raw     *os.File
	buf     *bufio.Writer
	samples uint32
	paused  bool
	power   float64
	werr    error
}

// NewDevice creates a capture device at sampleRate Hz
func NewDevice(sampleRate int) *Device {
	return &Device{sampleRate: sampleRate, power: silenceDB}
}

func (d *Device) Start(path string) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	raw, err := os.Create(path + ".pcm")
	if err != nil {
		portaudio.Terminate()
		return err
	}

	d.mu.Lock()
	d.path = path
	d.raw = raw
	d.buf = bufio.NewWriter(raw)
	d.samples = 0
	d.paused = false
	d.werr = nil
	d.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(d.sampleRate), framesPerBuffer, d.process)
	if err != nil {
		d.cleanup()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		d.cleanup()
		return fmt.Errorf("start input stream: %w", err)
	}

	d.mu.Lock()
	d.stream = stream
	d.mu.Unlock()
	return nil
}

// process runs on the audio thread for every captured buffer
func (d *Device) process(in []int16) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.power = powerDB(in)
	if d.paused || d.werr != nil {
		return
	}
	if err := binary.Write(d.buf, binary.LittleEndian, in); err != nil {
		d.werr = err
		return
	}
	d.samples += uint32(len(in))
}

func (d *Device) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
	return nil
}

func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
	return nil
}

func (d *Device) AveragePower() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power
}

// Stop closes the stream and encodes the captured PCM as WAV at the Start path
func (d *Device) Stop() error {
	d.mu.Lock()
	stream := d.stream
	d.stream = nil
	d.mu.Unlock()

	if stream != nil {
		if err := stream.Stop(); err != nil {
			stream.Close()
			d.cleanup()
			return fmt.Errorf("stop input stream: %w", err)
		}
		stream.Close()
	}
	defer d.cleanup()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.werr != nil {
		return fmt.Errorf("write samples: %w", d.werr)
	}
	if err := d.buf.Flush(); err != nil {
		return err
	}
	if _, err := d.raw.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return encodeWAV(d.path, d.raw, d.samples, d.sampleRate)
}

func (d *Device) cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.raw != nil {
		d.raw.Close()
		os.Remove(d.raw.Name())
		d.raw = nil
	}
	portaudio.Terminate()
}

func encodeWAV(path string, pcm io.Reader, samples uint32, sampleRate int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := wav.NewWriter(out, samples, channels, uint32(sampleRate), bitsPerSample)

	r := bufio.NewReader(pcm)
	frame := make([]int16, framesPerBuffer)
	batch := make([]wav.Sample, 0, framesPerBuffer)
	for remaining := samples; remaining > 0; {
		n := uint32(len(frame))
		if remaining < n {
			n = remaining
		}
		if err := binary.Read(r, binary.LittleEndian, frame[:n]); err != nil {
			return fmt.Errorf("read pcm: %w", err)
		}
		batch = batch[:0]
		for _, v := range frame[:n] {
			batch = append(batch, wav.Sample{Values: [2]int{int(v)}})
		}
		if err := w.WriteSamples(batch); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		remaining -= n
	}
	return nil
}

// powerDB returns the RMS level of a buffer in dBFS
func powerDB(in []int16) float64 {
	if len(in) == 0 {
		return silenceDB
	}
	var sum float64
	for _, s := range in {
		v := float64(s) / math.MaxInt16
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(in)))
	if rms == 0 {
		return silenceDB
	}
	return math.Max(20*math.Log10(rms), silenceDB)
}

var _ ports.CaptureDevice = (*Device)(nil)
