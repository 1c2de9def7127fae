package domain

import (
	"strings"
	"time"
)

// ProgressKind tags a ProgressEvent
type ProgressKind int

const (
	ProgressPercent ProgressKind = iota
	ProgressLine
)

// ProgressEvent is either a percentage update or one line of transcript text
type ProgressEvent struct {
	Kind    ProgressKind
	Percent int
	Text    string
}

// PercentEvent builds a Percent progress event
func PercentEvent(n int) ProgressEvent {
	return ProgressEvent{Kind: ProgressPercent, Percent: n}
}

// LineEvent builds a Line progress event
func LineEvent(text string) ProgressEvent {
	return ProgressEvent{Kind: ProgressLine, Text: text}
}

// Transcript is the immutable text produced by one transcription run
type Transcript struct {
	Text          string    `json:"text"`
	AudioPath     string    `json:"audio_path"`
	TranscribedAt time.Time `json:"transcribed_at"`
}

// NewTranscript trims text and returns nil when nothing usable remains
func NewTranscript(text, audioPath string) *Transcript {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &Transcript{
		Text:          text,
		AudioPath:     audioPath,
		TranscribedAt: time.Now(),
	}
}

// WordCount returns the number of whitespace-separated words
func (t *Transcript) WordCount() int {
	return len(strings.Fields(t.Text))
}
