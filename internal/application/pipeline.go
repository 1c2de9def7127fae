package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

// Request describes one job: either an audio producer or ready-made transcript text
type Request struct {
	Producer ports.AudioProducer
	Text     string
	Prompt   domain.PromptTemplate
}

// Outcome is the terminal result of a job
type Outcome struct {
	JobID         string
	Notes         *domain.NoteResult
	Transcript    *domain.Transcript
	Artifacts     *domain.Artifacts
	PersistErrors []error
	Err           error
}

// Display returns the notes, or the error description shown in their place
func (o *Outcome) Display() string {
	if o.Err != nil {
		return domain.Describe(o.Err)
	}
	if o.Notes == nil {
		return ""
	}
	return o.Notes.Content
}

// Ticket tracks a started job until its terminal event
type Ticket struct {
	JobID   string
	done    chan struct{}
	outcome *Outcome
}

// Done is closed once the outcome is available
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the job ends or ctx is done
func (t *Ticket) Wait(ctx context.Context) (*Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Coordinator runs the acquire, transcribe, generate, persist pipeline one job at a time
type Coordinator struct {
	jobs        *JobManager
	events      *EventBus
	transcriber ports.Transcriber
	notes       ports.NoteGenerator
	credentials ports.CredentialStore
	store       ports.ArtifactStore
	logger      *slog.Logger
	newID       func() string
}

// NewCoordinator creates a coordinator with an idle job slot
func NewCoordinator(
	jobs *JobManager,
	events *EventBus,
	transcriber ports.Transcriber,
	notes ports.NoteGenerator,
	credentials ports.CredentialStore,
	store ports.ArtifactStore,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		jobs:        jobs,
		events:      events,
		transcriber: transcriber,
		notes:       notes,
		credentials: credentials,
		store:       store,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// Events returns the bus job updates are published on
func (c *Coordinator) Events() *EventBus {
	return c.events
}

// Busy reports whether a job holds the slot
func (c *Coordinator) Busy() bool {
	return c.jobs.Busy()
}

// State returns the current pipeline state
func (c *Coordinator) State() domain.JobState {
	return c.jobs.Current().State
}

// Start claims the job slot and runs the pipeline in the background.
// It returns ErrJobInProgress without side effects while another job is active.
func (c *Coordinator) Start(ctx context.Context, req Request) (*Ticket, error) {
	if req.Producer == nil && strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("request needs an audio producer or transcript text")
	}

	id := c.newID()
	if err := c.jobs.Start(id); err != nil {
		c.logger.Info("job rejected", "reason", err, "active", c.jobs.Current().ID)
		return nil, err
	}

	c.logger.Info("job started", "job", id, "prompt", req.Prompt.ID)
	c.publishState(id, domain.JobAcquiring)

	ticket := &Ticket{JobID: id, done: make(chan struct{})}
	go c.run(ctx, ticket, req)
	return ticket, nil
}

// Run starts a job and waits for its outcome
func (c *Coordinator) Run(ctx context.Context, req Request) (*Outcome, error) {
	ticket, err := c.Start(ctx, req)
	if err != nil {
		return nil, err
	}
	return ticket.Wait(ctx)
}

func (c *Coordinator) run(ctx context.Context, ticket *Ticket, req Request) {
	var out *Outcome
	if req.Producer != nil {
		out = c.runAudio(ctx, ticket.JobID, req)
	} else {
		out = c.runText(ctx, ticket.JobID, req)
	}
	out.JobID = ticket.JobID

	if out.Err != nil {
		c.fail(ticket.JobID, out.Err)
	} else {
		c.advance(ticket.JobID, domain.JobIdle)
		c.logger.Info("job finished", "job", ticket.JobID, "notes", out.Artifacts.NotesPath,
			"tokens", out.Notes.TokensUsed, "cost", out.Notes.EstimatedCost)
	}

	// The slot is free before the terminal event so an observer may start the next job from it.
	c.jobs.Reset()

	if out.Err != nil {
		c.events.Publish(Event{JobID: ticket.JobID, Type: EventError, Message: domain.Describe(out.Err)})
	} else {
		c.events.Publish(Event{JobID: ticket.JobID, Type: EventResult, Notes: out.Notes, Artifacts: out.Artifacts})
	}

	ticket.outcome = out
	close(ticket.done)
}

func (c *Coordinator) runAudio(ctx context.Context, jobID string, req Request) *Outcome {
	audio, err := req.Producer.Produce(ctx)
	if err != nil {
		return &Outcome{Err: &domain.StageError{Stage: domain.JobAcquiring, Err: err}}
	}
	c.jobs.SetSource(audio)
	c.logger.Info("audio acquired", "job", jobID, "path", audio.Path, "origin", audio.Origin)

	c.advance(jobID, domain.JobTranscribing)
	transcript, err := c.transcriber.Transcribe(ctx, audio.Path, func(ev domain.ProgressEvent) {
		c.publishProgress(jobID, ev)
	})
	if err != nil {
		c.discard(audio)
		return &Outcome{Err: &domain.StageError{Stage: domain.JobTranscribing, Err: err}}
	}

	c.advance(jobID, domain.JobGeneratingNotes)
	result, err := c.generate(ctx, transcript, req.Prompt)
	if err != nil {
		c.discard(audio)
		return &Outcome{Transcript: transcript, Err: &domain.StageError{Stage: domain.JobGeneratingNotes, Err: err}}
	}

	c.advance(jobID, domain.JobPersisting)
	// The transcript sent for notes is the one written to disk.
	artifacts, errs := c.store.Persist(ctx, domain.DeriveBaseName(result.Content), audio, transcript.Text, result.Content)
	for _, perr := range errs {
		c.logger.Error("artifact not saved", "job", jobID, "error", perr)
	}

	return &Outcome{
		Notes:         result,
		Transcript:    transcript,
		Artifacts:     artifacts,
		PersistErrors: errs,
	}
}

func (c *Coordinator) runText(ctx context.Context, jobID string, req Request) *Outcome {
	transcript := domain.NewTranscript(req.Text, "")
	if transcript == nil {
		return &Outcome{Err: &domain.StageError{Stage: domain.JobAcquiring, Err: domain.ErrEmptyTranscript}}
	}

	c.advance(jobID, domain.JobGeneratingNotes)
	result, err := c.generate(ctx, transcript, req.Prompt)
	if err != nil {
		return &Outcome{Transcript: transcript, Err: &domain.StageError{Stage: domain.JobGeneratingNotes, Err: err}}
	}

	c.advance(jobID, domain.JobPersisting)
	out := &Outcome{Notes: result, Transcript: transcript}
	artifacts, err := c.store.WriteNotes(ctx, domain.DeriveBaseName(result.Content), result.Content)
	if err != nil {
		c.logger.Error("artifact not saved", "job", jobID, "error", err)
		out.PersistErrors = []error{err}
		artifacts = &domain.Artifacts{}
	}
	out.Artifacts = artifacts
	return out
}

func (c *Coordinator) generate(ctx context.Context, transcript *domain.Transcript, prompt domain.PromptTemplate) (*domain.NoteResult, error) {
	key, err := c.credentials.APIKey()
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, domain.ErrCredentialMissing
	}
	return c.notes.Generate(ctx, transcript.Text, prompt, key)
}

// discard drops a failed job's downloaded audio. Recordings stay staged so a
// lecture is never lost to a transcription or API failure.
func (c *Coordinator) discard(audio *domain.AudioSource) {
	if audio.Origin != domain.OriginRemoteDownload {
		if audio.Temporary {
			c.logger.Warn("recording kept after failure", "path", audio.Path)
		}
		return
	}
	if err := c.store.RemoveTemporary(audio); err != nil {
		c.logger.Warn("failed to remove download", "path", audio.Path, "error", err)
	}
}

func (c *Coordinator) advance(jobID string, state domain.JobState) {
	if err := c.jobs.Transition(state); err != nil {
		c.logger.Error("state transition refused", "job", jobID, "error", err)
		return
	}
	if state != domain.JobIdle {
		c.publishState(jobID, state)
	}
}

func (c *Coordinator) fail(jobID string, err error) {
	c.logger.Error("job failed", "job", jobID, "error", err)
	c.advance(jobID, domain.JobFailed)
}

func (c *Coordinator) publishState(jobID string, state domain.JobState) {
	c.events.Publish(Event{JobID: jobID, Type: EventState, State: state})
}

func (c *Coordinator) publishProgress(jobID string, ev domain.ProgressEvent) {
	switch ev.Kind {
	case domain.ProgressPercent:
		c.events.Publish(Event{JobID: jobID, Type: EventProgress, Percent: ev.Percent})
	case domain.ProgressLine:
		c.events.Publish(Event{JobID: jobID, Type: EventLine, Text: ev.Text})
	}
}
