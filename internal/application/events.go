package application

import (
	"sync"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
)

// EventType classifies messages emitted during a job
type EventType string

const (
	EventState    EventType = "state"
	EventProgress EventType = "progress"
	EventLine     EventType = "line"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// Terminal reports whether the event ends its job
func (t EventType) Terminal() bool {
	return t == EventResult || t == EventError
}

// Event is a sequenced pipeline update for observers
type Event struct {
	Seq       int64              `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	JobID     string             `json:"jobId"`
	Type      EventType          `json:"type"`
	State     domain.JobState    `json:"state,omitempty"`
	Percent   int                `json:"percent,omitempty"`
	Text      string             `json:"text,omitempty"`
	Message   string             `json:"message,omitempty"`
	Notes     *domain.NoteResult `json:"notes,omitempty"`
	Artifacts *domain.Artifacts  `json:"artifacts,omitempty"`
}

// EventBus stores recent events and fans them out to subscribers
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(Event)
}

// NewEventBus creates a bounded in-memory event buffer
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		subs:      make(map[int]func(Event)),
	}
}

// Publish appends one event, assigns sequence and timestamp, and notifies
// subscribers in publish order.
func (b *EventBus) Publish(event Event) Event {
	// subMu serializes delivery so subscribers never see events out of order
	b.subMu.Lock()
	defer b.subMu.Unlock()

	b.mu.Lock()
	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	b.mu.Unlock()

	for _, fn := range b.subs {
		fn(event)
	}
	return event
}

// Subscribe registers fn for future events and returns a cancel func.
// fn runs on the publishing goroutine and must not publish itself.
func (b *EventBus) Subscribe(fn func(Event)) func() {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

// Since returns events with sequence strictly greater than seq
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
