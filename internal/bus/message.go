// Package bus defines the decoded-message source the inspector consumes and
// the adapters that provide it.
//
// Decoding the telemetry wire protocol happens outside this process. A bus
// only delivers records that already carry source identity, a type
// discriminator and either an ordered field list or a raw text payload.
package bus

import (
	"fmt"
	"strings"
)

// Well-known message type discriminators.
const (
	TypeBadData    = "BAD_DATA"
	TypeHeartbeat  = "HEARTBEAT"
	TypeStatusText = "STATUSTEXT"
	TypeParamValue = "PARAM_VALUE"
)

// Field is a single decoded field. Value holds a scalar: an integer, float,
// bool or string.
type Field struct {
	Name  string
	Value any
}

// Message is one decoded telemetry record.
type Message struct {
	SystemID    uint8
	ComponentID uint8
	Type        string
	Fields      []Field
	// Text carries a raw or pre-formatted dump when the producer sends one.
	Text string
}

// Field returns the value of the named field.
func (m *Message) Field(name string) (any, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// IsBadData reports whether the message marks a frame that failed to decode.
func (m *Message) IsBadData() bool {
	return m.Type == TypeBadData
}

// BadData returns the sentinel message produced for undecodable frames.
func BadData() *Message {
	return &Message{Type: TypeBadData}
}

// FormatVerbose renders m as a multi-line dump: a header line followed by one
// indented "name: value" line per field. The result ends with a newline.
func FormatVerbose(m *Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (src=%d/%d)\n", m.Type, m.SystemID, m.ComponentID)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "    %s: %v\n", f.Name, f.Value)
	}
	if m.Text != "" {
		b.WriteString(m.Text)
		if !strings.HasSuffix(m.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
