package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

type collector struct {
	mu     sync.Mutex
	lines  []string
	stderr strings.Builder
}

func (c *collector) handlers() Handlers {
	return Handlers{
		OnStdoutLine: func(line string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.lines = append(c.lines, line)
		},
		OnStderrChunk: func(chunk []byte) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.stderr.Write(chunk)
		},
	}
}

func TestRunner_StreamsLinesAndFlushesPartial(t *testing.T) {
	sh := requireShell(t)
	r := NewRunner(nil)
	c := &collector{}

	p, err := r.Start(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", `printf 'first\nsecond\r\nlast'; printf 'oops' >&2`},
	}, c.handlers())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	status := p.Wait()
	if status.Code != 0 || status.Err != nil {
		t.Fatalf("Wait() = %+v, want success", status)
	}

	want := []string{"first", "second", "last"}
	if len(c.lines) != len(want) {
		t.Fatalf("lines = %q, want %q", c.lines, want)
	}
	for i := range want {
		if c.lines[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, c.lines[i], want[i])
		}
	}
	if c.stderr.String() != "oops" {
		t.Errorf("stderr = %q, want oops", c.stderr.String())
	}
}

func TestRunner_NonzeroExitIsNotAnError(t *testing.T) {
	sh := requireShell(t)
	r := NewRunner(nil)
	c := &collector{}

	p, err := r.Start(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", "echo partial output; exit 3"},
	}, c.handlers())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	status := p.Wait()
	if status.Code != 3 {
		t.Errorf("Code = %d, want 3", status.Code)
	}
	if status.Err != nil {
		t.Errorf("Err = %v, want nil", status.Err)
	}
	if len(c.lines) != 1 || c.lines[0] != "partial output" {
		t.Errorf("lines = %q", c.lines)
	}
}

func TestRunner_DoneClosesAfterCallbacks(t *testing.T) {
	sh := requireShell(t)
	r := NewRunner(nil)
	c := &collector{}

	p, err := r.Start(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", "for i in 1 2 3 4 5; do echo $i; done"},
	}, c.handlers())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	<-p.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) != 5 {
		t.Errorf("got %d lines before Done, want 5", len(c.lines))
	}
}

func TestRunner_BackgroundChildDoesNotHoldDone(t *testing.T) {
	sh := requireShell(t)
	r := NewRunner(nil)
	r.waitDelay = 100 * time.Millisecond
	c := &collector{}

	begin := time.Now()
	p, err := r.Start(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", "sleep 5 & echo hi"},
	}, c.handlers())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	status := p.Wait()
	if elapsed := time.Since(begin); elapsed > 3*time.Second {
		t.Errorf("Wait returned after %v, want shortly after the shell exits", elapsed)
	}
	if status.Code != 0 || status.Err != nil {
		t.Errorf("status = %+v, want clean exit", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) != 1 || c.lines[0] != "hi" {
		t.Errorf("lines = %q, want [hi]", c.lines)
	}
}

func TestRunner_PassesEnvAndDir(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()
	r := NewRunner(nil)
	c := &collector{}

	p, err := r.Start(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", `echo "$LECTURE_VAR"; pwd`},
		Env:  []string{"LECTURE_VAR=hello"},
		Dir:  dir,
	}, c.handlers())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	p.Wait()

	if len(c.lines) != 2 {
		t.Fatalf("lines = %q", c.lines)
	}
	if c.lines[0] != "hello" {
		t.Errorf("env line = %q, want hello", c.lines[0])
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if c.lines[1] != dir && c.lines[1] != resolved {
		t.Errorf("pwd = %q, want %q", c.lines[1], dir)
	}
}

func TestRunner_ToolNotFound(t *testing.T) {
	r := NewRunner(nil)

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing absolute", filepath.Join(t.TempDir(), "nope")},
		{"missing on PATH", "lecturenotes-definitely-not-installed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Start(context.Background(), Command{Path: tt.path}, Handlers{})
			if !errors.Is(err, domain.ErrToolNotFound) {
				t.Errorf("Start() error = %v, want ErrToolNotFound", err)
			}
			if p != nil {
				t.Error("Start() returned a process for a missing tool")
			}
		})
	}
}

func TestRunner_NonExecutableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("echo hi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRunner(nil).Start(context.Background(), Command{Path: path}, Handlers{})
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Errorf("Start() error = %v, want ErrToolNotFound", err)
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Path: "/usr/bin/python3", Args: []string{"engine.py", "a.wav"}}
	if got := c.String(); got != "/usr/bin/python3 engine.py a.wav" {
		t.Errorf("String() = %q", got)
	}
}
