package logger

import "sync"

// Switch is a Logger that forwards to a target which can be replaced while
// other goroutines are logging. The CLI hands one to background components
// and moves it from stderr to the log file when the TUI takes the terminal.
type Switch struct {
	mu     sync.RWMutex
	target Logger
}

// NewSwitch creates a switch forwarding to l. Nil discards.
func NewSwitch(l Logger) *Switch {
	s := &Switch{}
	s.Set(l)
	return s
}

// Set replaces the target. Nil discards.
func (s *Switch) Set(l Logger) {
	if l == nil {
		l = Noop()
	}
	s.mu.Lock()
	s.target = l
	s.mu.Unlock()
}

func (s *Switch) current() Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

func (s *Switch) Debug(format string, args ...interface{}) {
	s.current().Debug(format, args...)
}

func (s *Switch) Info(format string, args ...interface{}) {
	s.current().Info(format, args...)
}

func (s *Switch) Warn(format string, args ...interface{}) {
	s.current().Warn(format, args...)
}

func (s *Switch) Error(format string, args ...interface{}) {
	s.current().Error(format, args...)
}
