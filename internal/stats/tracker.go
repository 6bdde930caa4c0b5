package stats

import "time"

// Tracker holds the frequency estimates for every message type of a single
// endpoint. Like Frequency it relies on its owner for locking.
type Tracker struct {
	window time.Duration
	byType map[string]*Frequency
}

// NewTracker creates a tracker using the given trailing window.
func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window: window,
		byType: make(map[string]*Frequency),
	}
}

// Observe records an arrival of msgType at t.
func (t *Tracker) Observe(msgType string, at time.Time) {
	f, ok := t.byType[msgType]
	if !ok {
		f = &Frequency{}
		t.byType[msgType] = f
	}
	f.Observe(at, t.window)
}

// Sweep recomputes every estimate as of now so idle types decay to zero.
func (t *Tracker) Sweep(now time.Time) {
	for _, f := range t.byType {
		f.Recompute(now, t.window)
	}
}

// Get returns a copy of the estimate for msgType.
func (t *Tracker) Get(msgType string) (Frequency, bool) {
	f, ok := t.byType[msgType]
	if !ok {
		return Frequency{}, false
	}
	return f.Clone(), true
}

// Snapshot copies every estimate.
func (t *Tracker) Snapshot() map[string]Frequency {
	out := make(map[string]Frequency, len(t.byType))
	for k, f := range t.byType {
		c := f.Clone()
		c.recent = nil
		out[k] = c
	}
	return out
}
