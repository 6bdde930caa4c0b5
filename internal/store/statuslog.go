package store

import (
	"strconv"
	"sync"
	"time"
)

// DefaultStatusLogSize is the number of status entries retained.
const DefaultStatusLogSize = 100

// Severity is a status message severity, 0 (emergency) through 7 (debug).
type Severity int

// SeverityNone marks an entry whose message carried no severity.
const SeverityNone Severity = -1

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

var severityNames = [...]string{
	"EMERGENCY", "ALERT", "CRITICAL", "ERROR",
	"WARNING", "NOTICE", "INFO", "DEBUG",
}

func (s Severity) String() string {
	if s == SeverityNone {
		return ""
	}
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "SEVERITY(" + strconv.Itoa(int(s)) + ")"
}

// StatusEntry is one status text report. Entries are never mutated once
// appended.
type StatusEntry struct {
	Timestamp time.Time
	Endpoint  string
	Text      string
	Severity  Severity
}

func (e StatusEntry) equal(o StatusEntry) bool {
	return e.Timestamp.Equal(o.Timestamp) &&
		e.Endpoint == o.Endpoint &&
		e.Text == o.Text &&
		e.Severity == o.Severity
}

// StatusLog is a bounded, deduplicated, oldest-first log of status entries.
// It is safe for concurrent use.
type StatusLog struct {
	mu    sync.Mutex
	data  []StatusEntry
	head  int
	count int
	size  int
}

// NewStatusLog creates a log retaining at most size entries.
func NewStatusLog(size int) *StatusLog {
	if size <= 0 {
		size = DefaultStatusLogSize
	}
	return &StatusLog{
		data: make([]StatusEntry, size),
		size: size,
	}
}

// Append adds e unless an identical entry is already retained. Timestamps
// are compared at one-second resolution, so the same text reported twice
// within a second is kept once. Returns true if the entry was added.
func (l *StatusLog) Append(e StatusEntry) bool {
	e.Timestamp = e.Timestamp.Truncate(time.Second)

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := 0; i < l.count; i++ {
		if l.at(i).equal(e) {
			return false
		}
	}

	l.data[l.head] = e
	l.head = (l.head + 1) % l.size
	if l.count < l.size {
		l.count++
	}
	return true
}

// at returns the i-th oldest retained entry. Caller holds mu.
func (l *StatusLog) at(i int) StatusEntry {
	start := (l.head - l.count + l.size) % l.size
	return l.data[(start+i)%l.size]
}

// Len returns the number of retained entries.
func (l *StatusLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Entries returns a copy of all retained entries, oldest first.
func (l *StatusLog) Entries() []StatusEntry {
	return l.Last(-1)
}

// Last returns up to n of the newest entries, oldest first. A negative n
// returns everything.
func (l *StatusLog) Last(n int) []StatusEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 0 || n > l.count {
		n = l.count
	}
	out := make([]StatusEntry, n)
	skip := l.count - n
	for i := 0; i < n; i++ {
		out[i] = l.at(skip + i)
	}
	return out
}
