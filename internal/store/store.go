package store

import (
	"sync"
	"time"

	"github.com/rileyhilliard/mavinspect/internal/bus"
	"github.com/rileyhilliard/mavinspect/internal/stats"
)

// Options configures a Store.
type Options struct {
	// StatusLogSize bounds the status log. Zero uses DefaultStatusLogSize.
	StatusLogSize int
	// Window is the frequency estimation window. Zero uses stats.DefaultWindow.
	Window time.Duration
}

// Store is the concurrently accessed aggregate of everything received.
type Store struct {
	mu        sync.RWMutex
	order     []string
	endpoints map[string]*endpoint

	window time.Duration
	status *StatusLog
}

// New creates an empty store.
func New(opts Options) *Store {
	if opts.Window <= 0 {
		opts.Window = stats.DefaultWindow
	}
	return &Store{
		endpoints: make(map[string]*endpoint),
		window:    opts.Window,
		status:    NewStatusLog(opts.StatusLogSize),
	}
}

// endpoint returns the endpoint for id, creating it on first sight.
func (s *Store) endpoint(id Identity, at time.Time) *endpoint {
	key := id.Key()

	s.mu.RLock()
	ep, ok := s.endpoints[key]
	s.mu.RUnlock()
	if ok {
		return ep
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ep, ok := s.endpoints[key]; ok {
		return ep
	}
	ep = newEndpoint(id, at, s.window)
	s.endpoints[key] = ep
	s.order = append(s.order, key)
	return ep
}

// UpsertRecord replaces the latest record for msgType and counts the arrival.
func (s *Store) UpsertRecord(id Identity, msgType string, rec Record, at time.Time) {
	ep := s.endpoint(id, at)

	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.putRecord(msgType, rec)
	ep.stats.Observe(msgType, at)
}

// UpsertParameter overwrites a parameter value and counts the arrival under
// msgType.
func (s *Store) UpsertParameter(id Identity, msgType, paramID string, value any, at time.Time) {
	ep := s.endpoint(id, at)

	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.putParam(Parameter{ID: paramID, Value: value, UpdatedAt: at})
	ep.stats.Observe(msgType, at)
}

// AppendStatus adds a status log entry and counts the arrival under msgType.
// It reports whether the entry was new.
func (s *Store) AppendStatus(id Identity, msgType, text string, sev Severity, at time.Time) bool {
	ep := s.endpoint(id, at)

	ep.mu.Lock()
	ep.stats.Observe(msgType, at)
	ep.mu.Unlock()

	return s.status.Append(StatusEntry{
		Timestamp: at,
		Endpoint:  id.Key(),
		Text:      text,
		Severity:  sev,
	})
}

// Touch registers the endpoint and counts an arrival without storing content.
func (s *Store) Touch(id Identity, msgType string, at time.Time) {
	ep := s.endpoint(id, at)

	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.stats.Observe(msgType, at)
}

// Sweep recomputes every frequency estimate as of now.
func (s *Store) Sweep(now time.Time) {
	for _, ep := range s.list() {
		ep.mu.Lock()
		ep.stats.Sweep(now)
		ep.mu.Unlock()
	}
}

// EndpointCount returns the number of endpoints seen so far.
func (s *Store) EndpointCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// StatusLog returns the store's status log.
func (s *Store) StatusLog() *StatusLog {
	return s.status
}

// Snapshot copies the current state. Endpoints are copied one at a time
// under their own locks; the result shares nothing mutable with the store.
func (s *Store) Snapshot(now time.Time) *Snapshot {
	eps := s.list()
	snap := &Snapshot{
		TakenAt:   now,
		Endpoints: make([]EndpointSnapshot, 0, len(eps)),
	}
	for _, ep := range eps {
		snap.Endpoints = append(snap.Endpoints, ep.snapshot())
	}
	snap.Status = s.status.Entries()
	return snap
}

// list returns the endpoints in first-seen order.
func (s *Store) list() []*endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*endpoint, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.endpoints[key])
	}
	return out
}

// IdentityOf returns the endpoint identity of a message.
func IdentityOf(m *bus.Message) Identity {
	return Identity{SystemID: m.SystemID, ComponentID: m.ComponentID}
}
