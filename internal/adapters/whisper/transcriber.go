package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/devbush/lecturenotes/internal/adapters/process"
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// JobState is the lifecycle of one engine run
type JobState int

const (
	NotStarted JobState = iota
	Running
	Completed
	Failed
)

func (s JobState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type processStarter interface {
	Start(ctx context.Context, cmd process.Command, h process.Handlers) (*process.Process, error)
}

// Transcriber implements ports.Transcriber by running the engine script under a local interpreter
type Transcriber struct {
	runner     processStarter
	resolver   ports.PathResolver
	scriptPath string
	logger     *slog.Logger

	mu     sync.Mutex
	active *Job
}

// NewTranscriber creates a transcriber for the engine script at scriptPath
func NewTranscriber(runner *process.Runner, resolver ports.PathResolver, scriptPath string, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcriber{
		runner:     runner,
		resolver:   resolver,
		scriptPath: scriptPath,
		logger:     logger,
	}
}

// ScriptPath returns the engine script location
func (t *Transcriber) ScriptPath() string {
	return t.scriptPath
}

// Busy reports whether a job is in flight
func (t *Transcriber) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// Transcribe runs one job over audioPath. A request made while another job
// is in flight is rejected with ErrDuplicateRequest.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, onProgress func(domain.ProgressEvent)) (*domain.Transcript, error) {
	t.mu.Lock()
	if t.active != nil {
		t.mu.Unlock()
		return nil, domain.ErrDuplicateRequest
	}
	job := t.NewJob(audioPath)
	t.active = job
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.active = nil
		t.mu.Unlock()
	}()

	return job.Run(ctx, onProgress)
}

// NewJob prepares a single engine run without starting it
func (t *Transcriber) NewJob(audioPath string) *Job {
	return &Job{t: t, audioPath: audioPath}
}

// Job is one run of the engine over one audio file
type Job struct {
	t         *Transcriber
	audioPath string

	mu      sync.Mutex
	state   JobState
	claimed bool
	text    strings.Builder
}

// State returns the current job state
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) setState(s JobState) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

func (j *Job) fail(err error) (*domain.Transcript, error) {
	j.setState(Failed)
	j.t.logger.Error("transcription failed", "audio", j.audioPath, "error", err)
	return nil, err
}

// Run spawns the engine and blocks until it exits. Progress events are
// delivered in the order the engine writes them, all before Run returns.
// A job runs at most once; later calls return ErrDuplicateRequest.
func (j *Job) Run(ctx context.Context, onProgress func(domain.ProgressEvent)) (*domain.Transcript, error) {
	j.mu.Lock()
	if j.claimed {
		j.mu.Unlock()
		return nil, domain.ErrDuplicateRequest
	}
	j.claimed = true
	j.mu.Unlock()

	interpreter := j.t.resolver.ResolveInterpreter(ctx)
	if interpreter == "" {
		return j.fail(fmt.Errorf("%w: python interpreter", domain.ErrToolNotFound))
	}

	if _, err := os.Stat(j.t.scriptPath); err != nil {
		return j.fail(fmt.Errorf("%w: engine script %s", domain.ErrToolNotFound, j.t.scriptPath))
	}

	if _, err := os.Stat(j.audioPath); err != nil {
		return j.fail(&domain.FileIOError{Op: "read", Path: j.audioPath, Err: err})
	}

	p, err := j.t.runner.Start(ctx, process.Command{
		Path: interpreter,
		Args: []string{j.t.scriptPath, j.audioPath},
		Env:  j.t.resolver.SubprocessEnv(),
	}, process.Handlers{
		OnStdoutLine: func(line string) {
			ev, ok := parseLine(line)
			if !ok {
				return
			}
			if ev.Kind == domain.ProgressLine {
				j.text.WriteString(ev.Text)
				j.text.WriteString("\n")
			}
			if onProgress != nil {
				onProgress(ev)
			}
		},
		OnStderrChunk: j.logStderr,
	})
	if err != nil {
		return j.fail(err)
	}

	j.setState(Running)
	j.t.logger.Info("transcription started", "audio", j.audioPath, "pid", p.Pid())

	status := p.Wait()

	// A killed engine leaves a truncated transcript behind.
	if err := ctx.Err(); err != nil {
		return j.fail(fmt.Errorf("transcription cancelled: %w", err))
	}

	transcript := domain.NewTranscript(j.text.String(), j.audioPath)
	if transcript == nil {
		if status.Err != nil {
			return j.fail(fmt.Errorf("%w: %v", domain.ErrEmptyTranscript, status.Err))
		}
		return j.fail(fmt.Errorf("%w (exit code %d)", domain.ErrEmptyTranscript, status.Code))
	}

	if status.Code != 0 {
		j.t.logger.Warn("engine exited nonzero but produced text", "code", status.Code)
	}

	j.setState(Completed)
	j.t.logger.Info("transcription completed", "audio", j.audioPath, "words", transcript.WordCount())
	return transcript, nil
}

func (j *Job) logStderr(chunk []byte) {
	for _, line := range strings.Split(string(chunk), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "ERROR") || strings.Contains(line, "❌") {
			j.t.logger.Warn("engine", "stderr", line)
		} else {
			j.t.logger.Debug("engine", "stderr", line)
		}
	}
}

var progressPattern = regexp.MustCompile(`^\[PROGRESS\]\s+(\d+)$`)

// parseLine classifies one line of engine stdout. Blank lines yield nothing.
func parseLine(raw string) (domain.ProgressEvent, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return domain.ProgressEvent{}, false
	}

	if m := progressPattern.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > 100 {
			n = 100
		}
		return domain.PercentEvent(n), true
	}

	return domain.LineEvent(line), true
}

var _ ports.Transcriber = (*Transcriber)(nil)
