package domain

import (
	"testing"
)

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript("  Hello world.\nHow are you?\n", "/tmp/a.wav")
	if tr == nil {
		t.Fatal("NewTranscript() returned nil for non-empty text")
	}

	if tr.Text != "Hello world.\nHow are you?" {
		t.Errorf("Text = %q, want trimmed text", tr.Text)
	}
	if tr.WordCount() != 5 {
		t.Errorf("WordCount() = %d, want 5", tr.WordCount())
	}
	if tr.AudioPath != "/tmp/a.wav" {
		t.Errorf("AudioPath = %q", tr.AudioPath)
	}
}

func TestNewTranscript_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t"} {
		if tr := NewTranscript(text, "a.wav"); tr != nil {
			t.Errorf("NewTranscript(%q) = %+v, want nil", text, tr)
		}
	}
}

func TestProgressEvents(t *testing.T) {
	p := PercentEvent(37)
	if p.Kind != ProgressPercent || p.Percent != 37 {
		t.Errorf("PercentEvent(37) = %+v", p)
	}

	l := LineEvent("hello")
	if l.Kind != ProgressLine || l.Text != "hello" {
		t.Errorf("LineEvent(hello) = %+v", l)
	}
}

func TestAudioSource_Ext(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/lecture.WAV", ".wav"},
		{"/tmp/lecture.m4a", ".m4a"},
		{"/tmp/lecture", ".m4a"},
	}

	for _, tt := range tests {
		src := &AudioSource{Path: tt.path}
		if got := src.Ext(); got != tt.want {
			t.Errorf("Ext(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	if !IsAudioFile("talk.MP3") {
		t.Error("IsAudioFile(talk.MP3) = false, want true")
	}
	if IsAudioFile("notes.txt") {
		t.Error("IsAudioFile(notes.txt) = true, want false")
	}
}

func TestJobState_Active(t *testing.T) {
	active := []JobState{JobAcquiring, JobTranscribing, JobGeneratingNotes, JobPersisting}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s.Active() = false, want true", s)
		}
	}
	for _, s := range []JobState{JobIdle, JobFailed} {
		if s.Active() {
			t.Errorf("%s.Active() = true, want false", s)
		}
	}
}
