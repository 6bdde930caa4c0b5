package ui

import (
	"io"
	"sync"
	"time"
)

// Phase records one startup step.
type Phase struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Error     error
}

// Duration returns the phase duration.
func (p Phase) Duration() time.Duration {
	if p.EndTime.IsZero() {
		return time.Since(p.StartTime)
	}
	return p.EndTime.Sub(p.StartTime)
}

// Success reports whether the phase finished without error.
func (p Phase) Success() bool {
	return !p.EndTime.IsZero() && p.Error == nil
}

// Phases renders a sequence of startup steps, one spinner line each:
//
//	● Connecting to tcp:127.0.0.1:5760 0.01s
//	⣾ Waiting for heartbeat...
type Phases struct {
	mu      sync.Mutex
	w       io.Writer
	current *Spinner
	phases  []Phase
}

// NewPhases creates a phase display writing to w.
func NewPhases(w io.Writer) *Phases {
	return &Phases{w: w}
}

// Start begins a new phase. A phase still running is marked done first.
func (p *Phases) Start(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finishLocked(nil)
	p.phases = append(p.phases, Phase{Name: name, StartTime: time.Now()})
	p.current = NewSpinner(p.w, name)
	p.current.Start()
}

// Done ends the phase called name. A name that was never started is
// recorded and printed as an instantaneous phase.
func (p *Phases) Done(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.Label() != name {
		p.finishLocked(nil)
		p.phases = append(p.phases, Phase{Name: name, StartTime: time.Now()})
		p.current = NewSpinner(p.w, name)
	}
	p.finishLocked(err)
}

// History returns a copy of the recorded phases in start order.
func (p *Phases) History() []Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Phase, len(p.phases))
	copy(out, p.phases)
	return out
}

func (p *Phases) finishLocked(err error) {
	if p.current == nil {
		return
	}
	last := &p.phases[len(p.phases)-1]
	last.EndTime = time.Now()
	last.Error = err
	if err != nil {
		p.current.Fail()
	} else {
		p.current.Success()
	}
	p.current = nil
}
