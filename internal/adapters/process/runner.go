package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
)

// Command describes one external program invocation.
type Command struct {
	Path string
	Args []string
	// Env replaces the child environment; nil inherits the parent's.
	Env []string
	Dir string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Handlers receive child output as it is produced.
type Handlers struct {
	// OnStdoutLine is called once per newline-terminated line, without the terminator.
	// A trailing partial line is delivered at exit.
	OnStdoutLine func(line string)
	// OnStderrChunk is called with raw stderr reads.
	OnStderrChunk func(chunk []byte)
}

// ExitStatus is the terminal result of a process.
// A nonzero Code is not an error; Err is set only when waiting itself failed.
type ExitStatus struct {
	Code int
	Err  error
}

// Process is a running child.
type Process struct {
	cmd    *exec.Cmd
	done   chan struct{}
	status ExitStatus
}

// Pid returns the OS process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed after every output callback has returned and the child has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until Done and returns the exit status.
func (p *Process) Wait() ExitStatus {
	<-p.done
	return p.status
}

// DefaultWaitDelay bounds how long output is drained after the child exits.
// Grandchildren that inherited the pipes cannot hold Done open past it.
const DefaultWaitDelay = 2 * time.Second

// Runner spawns processes with streamed output.
type Runner struct {
	lookPath  func(file string) (string, error)
	stat      func(name string) (os.FileInfo, error)
	waitDelay time.Duration
	logger    *slog.Logger
}

// NewRunner creates a runner backed by os/exec.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		lookPath:  exec.LookPath,
		stat:      os.Stat,
		waitDelay: DefaultWaitDelay,
		logger:    logger,
	}
}

// Start spawns cmd and returns without waiting for it to exit.
// ErrToolNotFound is returned synchronously when cmd.Path cannot be resolved.
func (r *Runner) Start(ctx context.Context, cmd Command, h Handlers) (*Process, error) {
	path, err := r.resolve(cmd.Path)
	if err != nil {
		return nil, err
	}

	stdout := &lineWriter{onLine: h.OnStdoutLine}

	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdout = stdout
	c.Stderr = chunkWriter(h.OnStderrChunk)
	c.WaitDelay = r.waitDelay

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProcessSpawnFailed, cmd.Path, err)
	}

	r.logger.Debug("process started", "cmd", cmd.String(), "pid", c.Process.Pid)

	p := &Process{cmd: c, done: make(chan struct{})}

	go func() {
		// Wait returns once the child has exited and the copy goroutines are done,
		// or WaitDelay after exit when something else still holds the pipes.
		err := c.Wait()
		stdout.flush()
		if errors.Is(err, exec.ErrWaitDelay) {
			r.logger.Debug("output still open after exit, pipes closed", "cmd", cmd.Path)
			err = nil
		}
		p.status = exitStatus(err)
		r.logger.Debug("process exited", "cmd", cmd.Path, "code", p.status.Code)
		close(p.done)
	}()

	return p, nil
}

func (r *Runner) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty executable path", domain.ErrToolNotFound)
	}

	if !strings.ContainsRune(name, os.PathSeparator) {
		path, err := r.lookPath(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
		}
		return path, nil
	}

	info, err := r.stat(name)
	if err != nil || info.IsDir() || info.Mode()&0111 == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}
	return name, nil
}

// lineWriter splits stdout into lines. exec feeds it from a single goroutine.
type lineWriter struct {
	buf    []byte
	onLine func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emit(line []byte) {
	if w.onLine != nil {
		w.onLine(string(bytes.TrimSuffix(line, []byte("\r"))))
	}
}

// chunkWriter hands each stderr write to onChunk as its own copy.
type chunkWriter func([]byte)

func (f chunkWriter) Write(p []byte) (int, error) {
	if f != nil && len(p) > 0 {
		chunk := make([]byte, len(p))
		copy(chunk, p)
		f(chunk)
	}
	return len(p), nil
}

func exitStatus(err error) ExitStatus {
	if err == nil {
		return ExitStatus{}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitStatus{Code: exitErr.ExitCode()}
	}
	return ExitStatus{Code: -1, Err: err}
}
