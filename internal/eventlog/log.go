package eventlog

import (
	"sync"
	"time"
)

// DefaultCapacity is the bounded log size used in production.
const DefaultCapacity = 100

// Event is one structured entry in the log. Events are immutable once
// appended; only capacity eviction removes them.
type Event struct {
	// ID is a process-lifetime monotonic counter. It stays unique even
	// after the log wraps, unlike a buffer-position id would.
	ID int64 `json:"id"`

	// Timestamp is the UTC capture time in RFC 3339, set at append.
	Timestamp string `json:"timestamp"`

	// Type is one of info|success|warning|error|decision by convention,
	// but is not validated.
	Type    string `json:"type"`
	Source  string `json:"source"`
	Message string `json:"message"`

	// Details is an arbitrary payload, opaque to the log.
	Details map[string]any `json:"details,omitempty"`
}

// Input is the caller-supplied part of an event. ID and Timestamp are
// assigned by the log.
type Input struct {
	Type    string         `json:"type"`
	Source  string         `json:"source"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Log is a thread-safe bounded event log. Entries are held newest-first;
// appending beyond capacity evicts the oldest entry atomically with the
// insert, so the size invariant can never be observed violated.
type Log struct {
	mu       sync.Mutex
	events   []Event // index 0 is the newest
	capacity int
	nextID   int64
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Log with the given capacity. Non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
		nextID:   1,
		now:      time.Now,
	}
}

// Append assigns an id and timestamp to in, inserts it at the front and
// evicts the oldest entry if the log is full. It returns the stored event.
func (l *Log) Append(in Input) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Event{
		ID:        l.nextID,
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Type:      in.Type,
		Source:    in.Source,
		Message:   in.Message,
		Details:   in.Details,
	}
	l.nextID++

	if len(l.events) < l.capacity {
		l.events = append(l.events, Event{})
	}
	copy(l.events[1:], l.events)
	l.events[0] = e
	return e
}

// Snapshot returns up to limit events in newest-first order plus the total
// count currently held (capped at capacity, not a historical total).
// A non-positive limit returns everything. The log is not mutated.
func (l *Log) Snapshot(limit int) ([]Event, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, limit)
	copy(out, l.events[:limit])
	return out, n
}

// Latest returns the most recent event, or false if the log is empty.
func (l *Log) Latest() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[0], true
}

// LatestOfType returns the most recent event with the given type, or false
// if none is currently retained.
func (l *Log) LatestOfType(typ string) (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

// CountByType counts currently-retained events with the given type. Evicted
// events are not counted, so this is a window count, not a historical one.
func (l *Log) CountByType(typ string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Len returns the number of events currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
