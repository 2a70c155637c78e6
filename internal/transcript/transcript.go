package transcript

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role identifies who an entry is attributed to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Kind classifies an entry for rendering.
type Kind string

const (
	KindMessage     Kind = "message"
	KindPlaceholder Kind = "placeholder"
	KindQuestion    Kind = "question"
	KindFeedback    Kind = "feedback"
	KindSummary     Kind = "summary"
	KindError       Kind = "error"
)

// Entry is one line of the conversation.
type Entry struct {
	ID      string
	Role    Role
	Kind    Kind
	Text    string
	Options []string // set on multiple-choice questions
	Correct *bool    // set on feedback entries
	At      time.Time
}

// Sink receives every entry once it is final. Used to persist history.
type Sink interface {
	Record(e Entry)
}

// Log is an append-only, concurrency-safe transcript. The only mutation of
// an existing entry is Resolve, which replaces a placeholder's text.
//
// Final entries are queued under mu and handed to the sink under sinkMu
// only, so readers never wait on the sink. The sink sees entries in
// transcript order, and Append and Resolve return once theirs is recorded.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	pending []Entry
	version uint64
	entropy *ulid.MonotonicEntropy

	sinkMu sync.Mutex
	sink   Sink
}

// NewLog creates an empty transcript. sink may be nil.
func NewLog(sink Sink) *Log {
	return &Log{
		sink:    sink,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Append adds e to the end of the transcript and returns its ID.
// ID and At are filled in when empty.
func (l *Log) Append(e Entry) string {
	l.mu.Lock()

	if e.At.IsZero() {
		e.At = time.Now()
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Timestamp(e.At), l.entropy).String()
	}
	if e.Kind == "" {
		e.Kind = KindMessage
	}
	e.Options = append([]string(nil), e.Options...)

	l.entries = append(l.entries, e)
	l.version++

	if e.Kind == KindPlaceholder {
		l.mu.Unlock()
		return e.ID
	}
	l.record(e.clone())
	return e.ID
}

// record queues e for the sink. It must be called with mu held and
// releases it before the sink runs.
func (l *Log) record(e Entry) {
	if l.sink == nil {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, e)
	l.mu.Unlock()

	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()
	for _, p := range batch {
		l.sink.Record(p)
	}
}

func (e Entry) clone() Entry {
	e.Options = append([]string(nil), e.Options...)
	return e
}

// Say appends a plain message.
func (l *Log) Say(role Role, text string) string {
	return l.Append(Entry{Role: role, Kind: KindMessage, Text: text})
}

// Resolve replaces the text of a placeholder entry and turns it into kind.
// It reports false when id is unknown or the entry is not a placeholder.
func (l *Log) Resolve(id string, kind Kind, text string) bool {
	l.mu.Lock()

	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		if l.entries[i].Kind != KindPlaceholder {
			l.mu.Unlock()
			return false
		}
		l.entries[i].Kind = kind
		l.entries[i].Text = text
		l.version++
		l.record(l.entries[i].clone())
		return true
	}
	l.mu.Unlock()
	return false
}

// Entries returns a copy of all entries in order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Last returns the most recent entry, if any.
func (l *Log) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1].clone(), true
}

// Version increases on every change; views use it to detect updates.
func (l *Log) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}
