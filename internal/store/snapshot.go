package store

import (
	"time"

	"github.com/rileyhilliard/mavinspect/internal/stats"
)

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	TakenAt   time.Time
	Endpoints []EndpointSnapshot
	Status    []StatusEntry
}

// EndpointSnapshot is the copied state of one endpoint.
type EndpointSnapshot struct {
	Identity  Identity
	Key       string
	FirstSeen time.Time
	// Messages holds the types that produced a record, in first-seen order.
	Messages   []MessageSnapshot
	Parameters []Parameter
	// Frequencies covers every observed type, including status and
	// parameter messages that never produce a record.
	Frequencies map[string]stats.Frequency
}

// MessageSnapshot pairs a record with its arrival statistics.
type MessageSnapshot struct {
	Type   string
	Record Record
	Stats  stats.Frequency
}

// Endpoint returns the snapshot for key.
func (s *Snapshot) Endpoint(key string) (EndpointSnapshot, bool) {
	for _, ep := range s.Endpoints {
		if ep.Key == key {
			return ep, true
		}
	}
	return EndpointSnapshot{}, false
}

// Message returns the snapshot for msgType.
func (e EndpointSnapshot) Message(msgType string) (MessageSnapshot, bool) {
	for _, m := range e.Messages {
		if m.Type == msgType {
			return m, true
		}
	}
	return MessageSnapshot{}, false
}
