package application

import (
	"context"
	"sync"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

type mockStore struct {
	mu sync.Mutex

	itemCount int
	totalSize int64
	artifacts []ports.Artifact
	statsErr  error
	clearErr  error
	cleared   bool

	persistErrs  []error
	persisted    []string
	notesWritten []string
	removed      []string
	transcripts  []string
}

func (m *mockStore) Persist(ctx context.Context, baseName string, audio *domain.AudioSource, transcript, notes string) (*domain.Artifacts, []error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted = append(m.persisted, baseName)
	m.transcripts = append(m.transcripts, transcript)
	return &domain.Artifacts{
		BaseName:       baseName,
		AudioPath:      "/cache/" + baseName + audio.Ext(),
		TranscriptPath: "/cache/" + baseName + "_transcript.txt",
		NotesPath:      "/cache/" + baseName + "_notes.md",
	}, m.persistErrs
}

func (m *mockStore) WriteNotes(ctx context.Context, baseName, notes string) (*domain.Artifacts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notesWritten = append(m.notesWritten, baseName)
	return &domain.Artifacts{BaseName: baseName, NotesPath: "/cache/" + baseName + "_notes.md"}, nil
}

func (m *mockStore) RemoveTemporary(audio *domain.AudioSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, audio.Path)
	return nil
}

func (m *mockStore) TempDir() string { return "/cache/.incoming" }
func (m *mockStore) Dir() string     { return "/cache" }

func (m *mockStore) List(ctx context.Context) ([]ports.Artifact, error) {
	return m.artifacts, nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

func (m *mockStore) Stats(ctx context.Context) (int, int64, error) {
	if m.statsErr != nil {
		return 0, 0, m.statsErr
	}
	return m.itemCount, m.totalSize, nil
}

type mockTranscriber struct {
	events []domain.ProgressEvent
	text   string
	err    error
	// entered is closed on the first call; gate, when set, blocks until closed
	entered chan struct{}
	gate    chan struct{}
	calls   int
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string, onProgress func(domain.ProgressEvent)) (*domain.Transcript, error) {
	m.calls++
	if m.entered != nil {
		close(m.entered)
	}
	if m.gate != nil {
		<-m.gate
	}
	for _, ev := range m.events {
		onProgress(ev)
	}
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewTranscript(m.text, audioPath), nil
}

type mockNotes struct {
	content string
	err     error
	calls   int
	gotText string
	gotKey  string
}

func (m *mockNotes) Generate(ctx context.Context, transcript string, prompt domain.PromptTemplate, apiKey string) (*domain.NoteResult, error) {
	m.calls++
	m.gotText = transcript
	m.gotKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return &domain.NoteResult{Content: m.content, Model: "gpt-4.1-nano", TokensUsed: 150, EstimatedCost: 0.00003}, nil
}

type mockCredentials struct {
	key string
}

func (m *mockCredentials) APIKey() (string, error)     { return m.key, nil }
func (m *mockCredentials) SetAPIKey(key string) error { m.key = key; return nil }
func (m *mockCredentials) ClearAPIKey() error         { m.key = ""; return nil }
func (m *mockCredentials) HasOverride() bool          { return m.key != "" }

func staticAudio(audio *domain.AudioSource, err error) ports.AudioProducer {
	return ports.AudioProducerFunc(func(ctx context.Context) (*domain.AudioSource, error) {
		return audio, err
	})
}
