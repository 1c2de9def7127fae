package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single step in the progress
type ProgressStep struct {
	Name    string
	Status  StepStatus
	Percent int    // -1 when the step reports no percentage
	Detail  string // latest output line, shown dimmed
	Error   string
}

// ProgressDisplay manages multi-step progress output
type ProgressDisplay struct {
	out         io.Writer
	steps       []ProgressStep
	currentStep int
	spinnerIdx  int
	quiet       bool
	mu          sync.Mutex
	lastRender  time.Time
	rendered    int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewProgressDisplay creates a new progress display on stderr
func NewProgressDisplay(steps []string, quiet bool) *ProgressDisplay {
	return NewProgressDisplayTo(os.Stderr, steps, quiet)
}

// NewProgressDisplayTo creates a progress display writing to out
func NewProgressDisplayTo(out io.Writer, steps []string, quiet bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:   out,
		steps: make([]ProgressStep, len(steps)),
		quiet: quiet,
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending, Percent: -1}
	}
	return pd
}

// StartStep marks a step as running and completes any earlier running step
func (p *ProgressDisplay) StartStep(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		for i := 0; i < index; i++ {
			if p.steps[i].Status == StepRunning {
				p.steps[i].Status = StepComplete
				p.steps[i].Detail = ""
			}
		}
		p.currentStep = index
		p.steps[index].Status = StepRunning
		p.render()
	}
}

// CompleteStep marks a step as complete
func (p *ProgressDisplay) CompleteStep(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = StepComplete
		p.steps[index].Detail = ""
		p.render()
	}
}

// FailCurrent marks the running step as failed
func (p *ProgressDisplay) FailCurrent(err string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.steps[p.currentStep].Status = StepError
	p.steps[p.currentStep].Error = err
	p.render()
}

// UpdatePercent sets the percentage of the running step. A new value replaces the previous one.
func (p *ProgressDisplay) UpdatePercent(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.steps[p.currentStep].Percent = percent
	p.throttledRender()
}

// UpdateDetail shows the latest output line under the running step
func (p *ProgressDisplay) UpdateDetail(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.steps[p.currentStep].Detail = line
	p.throttledRender()
}

// Steps returns a snapshot of the steps
func (p *ProgressDisplay) Steps() []ProgressStep {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ProgressStep(nil), p.steps...)
}

// Tick advances the spinner animation
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
	p.render()
}

func (p *ProgressDisplay) throttledRender() {
	// Throttle renders to avoid flickering
	if time.Since(p.lastRender) > 100*time.Millisecond {
		p.render()
	}
}

func (p *ProgressDisplay) render() {
	if p.quiet {
		return
	}

	p.lastRender = time.Now()

	if p.rendered > 0 {
		// Move up over the last render and clear to the end
		fmt.Fprintf(p.out, "\033[%dA\033[J", p.rendered)
	}

	lines := 0
	total := len(p.steps)
	for i, step := range p.steps {
		stepNum := fmt.Sprintf("[%d/%d]", i+1, total)

		var status string
		switch step.Status {
		case StepPending:
			status = " "
		case StepRunning:
			status = spinnerFrames[p.spinnerIdx]
			if step.Percent >= 0 {
				status = fmt.Sprintf("%s %d%%", status, step.Percent)
			}
		case StepComplete:
			status = "✓"
		case StepError:
			status = "✗ " + step.Error
		}

		fmt.Fprintf(p.out, "%s %s... %s\n", stepNum, step.Name, status)
		lines++

		if step.Status == StepRunning && step.Detail != "" {
			fmt.Fprintf(p.out, "      %s\n", dimStyle.Render(Truncate(step.Detail, 70)))
			lines++
		}
	}

	p.rendered = lines
}

// Complete prints the final success message
func (p *ProgressDisplay) Complete(outputs [][2]string) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "✓ Complete!")
	for _, kv := range outputs {
		fmt.Fprintf(p.out, "  %s: %s\n", kv[0], kv[1])
	}
}

// StartSpinner starts a goroutine that ticks the spinner
func (p *ProgressDisplay) StartSpinner() chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()
	return done
}
