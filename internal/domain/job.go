package domain

import "time"

// JobState is a pipeline stage
type JobState string

const (
	JobIdle            JobState = "idle"
	JobAcquiring       JobState = "acquiring"
	JobTranscribing    JobState = "transcribing"
	JobGeneratingNotes JobState = "generating_notes"
	JobPersisting      JobState = "persisting"
	JobFailed          JobState = "failed"
)

// Active reports whether the state holds the single job slot
func (s JobState) Active() bool {
	switch s {
	case JobAcquiring, JobTranscribing, JobGeneratingNotes, JobPersisting:
		return true
	default:
		return false
	}
}

// Job binds one audio source to its transcript and notes
type Job struct {
	ID        string       `json:"id"`
	State     JobState     `json:"state"`
	Source    *AudioSource `json:"source,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// Artifacts lists the files written for a finished job
type Artifacts struct {
	BaseName       string `json:"base_name"`
	AudioPath      string `json:"audio_path,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	NotesPath      string `json:"notes_path,omitempty"`
}
