package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/mavinspect/internal/bus"
	"github.com/rileyhilliard/mavinspect/internal/stats"
)

// Identity is the source address of an endpoint.
type Identity struct {
	SystemID    uint8
	ComponentID uint8
}

// Key returns the endpoint key, "{system}:{component}".
func (i Identity) Key() string {
	return EndpointKey(i.SystemID, i.ComponentID)
}

// EndpointKey formats the key for a system/component pair.
func EndpointKey(system, component uint8) string {
	return fmt.Sprintf("%d:%d", system, component)
}

// Record is the latest content seen for one message type. Exactly one of
// Fields or Text is meaningful; IsText reports which.
type Record struct {
	Fields    []bus.Field
	Text      string
	text      bool
	UpdatedAt time.Time
}

// FieldRecord builds a structured record. The slice is copied.
func FieldRecord(fields []bus.Field, at time.Time) Record {
	return Record{
		Fields:    append([]bus.Field(nil), fields...),
		UpdatedAt: at,
	}
}

// TextRecord builds an opaque text record.
func TextRecord(text string, at time.Time) Record {
	return Record{Text: text, text: true, UpdatedAt: at}
}

// IsText reports whether the record holds a text payload.
func (r Record) IsText() bool {
	return r.text
}

// Parameter is the last reported value of a named parameter.
type Parameter struct {
	ID        string
	Value     any
	UpdatedAt time.Time
}

// endpoint is the mutable per-source state. Every field below mu is guarded
// by it.
type endpoint struct {
	id        Identity
	firstSeen time.Time

	mu         sync.Mutex
	typeOrder  []string
	records    map[string]Record
	paramOrder []string
	params     map[string]Parameter
	stats      *stats.Tracker
}

func newEndpoint(id Identity, at time.Time, window time.Duration) *endpoint {
	return &endpoint{
		id:        id,
		firstSeen: at,
		records:   make(map[string]Record),
		params:    make(map[string]Parameter),
		stats:     stats.NewTracker(window),
	}
}

func (e *endpoint) putRecord(msgType string, rec Record) {
	if _, ok := e.records[msgType]; !ok {
		e.typeOrder = append(e.typeOrder, msgType)
	}
	e.records[msgType] = rec
}

func (e *endpoint) putParam(p Parameter) {
	if _, ok := e.params[p.ID]; !ok {
		e.paramOrder = append(e.paramOrder, p.ID)
	}
	e.params[p.ID] = p
}

func (e *endpoint) snapshot() EndpointSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := EndpointSnapshot{
		Identity:   e.id,
		Key:        e.id.Key(),
		FirstSeen:  e.firstSeen,
		Messages:   make([]MessageSnapshot, 0, len(e.typeOrder)),
		Parameters: make([]Parameter, 0, len(e.paramOrder)),
	}
	for _, typ := range e.typeOrder {
		f, _ := e.stats.Get(typ)
		snap.Messages = append(snap.Messages, MessageSnapshot{
			Type:   typ,
			Record: e.records[typ],
			Stats:  f,
		})
	}
	for _, id := range e.paramOrder {
		snap.Parameters = append(snap.Parameters, e.params[id])
	}
	snap.Frequencies = e.stats.Snapshot()
	return snap
}
