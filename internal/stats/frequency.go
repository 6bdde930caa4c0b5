// Package stats estimates per-message-type arrival frequency over a trailing
// time window.
package stats

import "time"

// DefaultWindow is the trailing window used for frequency estimation.
const DefaultWindow = 2 * time.Second

// Frequency tracks arrivals of one message type from one endpoint.
// It is not safe for concurrent use; the owner serializes access.
type Frequency struct {
	Count     uint64
	FirstSeen time.Time
	LastSeen  time.Time
	Hz        float64

	recent []time.Time
}

// Observe records an arrival at t and recomputes the estimate as of t.
func (f *Frequency) Observe(t time.Time, window time.Duration) {
	if f.Count == 0 {
		f.FirstSeen = t
		f.Hz = 0
	}
	f.Count++
	f.LastSeen = t
	f.recent = append(f.recent, t)
	f.Recompute(t, window)
}

// Recompute drops timestamps older than now-window and re-derives Hz.
// With n timestamps left spanning now-first seconds, Hz is (n-1)/span;
// it is zero when fewer than two remain or the span is not positive.
func (f *Frequency) Recompute(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	drop := 0
	for drop < len(f.recent) && f.recent[drop].Before(cutoff) {
		drop++
	}
	if drop > 0 {
		// Shift in place so the backing array does not grow without bound.
		n := copy(f.recent, f.recent[drop:])
		f.recent = f.recent[:n]
	}

	n := len(f.recent)
	if n < 2 {
		f.Hz = 0
		return
	}
	span := now.Sub(f.recent[0]).Seconds()
	if span <= 0 {
		f.Hz = 0
		return
	}
	f.Hz = float64(n-1) / span
}

// InWindow returns how many timestamps are currently retained.
func (f *Frequency) InWindow() int {
	return len(f.recent)
}

// Clone returns a copy that shares no state with f.
func (f *Frequency) Clone() Frequency {
	c := *f
	c.recent = append([]time.Time(nil), f.recent...)
	return c
}
