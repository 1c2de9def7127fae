package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
)

// JobManager holds the single job slot and enforces pipeline transitions
type JobManager struct {
	mu      sync.RWMutex
	current domain.Job
	now     func() time.Time
}

// NewJobManager creates a manager in idle state
func NewJobManager() *JobManager {
	return &JobManager{
		current: domain.Job{State: domain.JobIdle},
		now:     time.Now,
	}
}

// Start claims the slot for jobID and moves it to acquiring.
// Any non-idle state refuses the claim with ErrJobInProgress.
func (m *JobManager) Start(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.State != domain.JobIdle {
		return domain.ErrJobInProgress
	}

	m.current = domain.Job{
		ID:        jobID,
		State:     domain.JobAcquiring,
		StartedAt: m.now(),
	}
	return nil
}

// Transition validates and applies a state change for the current job
func (m *JobManager) Transition(state domain.JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state == m.current.State {
		return nil
	}
	if !isValidTransition(m.current.State, state) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.current.State, state)
	}

	m.current.State = state
	return nil
}

// SetSource records the acquired audio on the current job
func (m *JobManager) SetSource(audio *domain.AudioSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Source = audio
}

// Current returns a snapshot of the current job
func (m *JobManager) Current() domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset clears the job and returns the slot to idle
func (m *JobManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Job{State: domain.JobIdle}
}

// Busy reports whether the slot is taken
func (m *JobManager) Busy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.State != domain.JobIdle
}

func isValidTransition(from, to domain.JobState) bool {
	if from.Active() && to == domain.JobFailed {
		return true
	}

	switch from {
	case domain.JobIdle:
		return to == domain.JobAcquiring
	case domain.JobAcquiring:
		// text imports skip transcription
		return to == domain.JobTranscribing || to == domain.JobGeneratingNotes
	case domain.JobTranscribing:
		return to == domain.JobGeneratingNotes
	case domain.JobGeneratingNotes:
		return to == domain.JobPersisting
	case domain.JobPersisting, domain.JobFailed:
		return to == domain.JobIdle
	default:
		return false
	}
}
