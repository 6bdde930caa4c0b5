package tree

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/mavinspect/internal/stats"
	"github.com/rileyhilliard/mavinspect/internal/store"
)

// Fixed container keys under each endpoint.
const (
	KeySystemID    = "System ID"
	KeyComponentID = "Component ID"
	KeyMessages    = "Messages"
	KeyParameters  = "Parameters"
	KeyFrequency   = "_frequency"
)

// Projector builds successive tree generations from store snapshots and
// carries expansion state from one generation to the next. It is not safe
// for concurrent use; one goroutine owns it along with the trees it returns.
type Projector struct {
	current *Tree
}

// NewProjector creates a projector with no previous generation.
func NewProjector() *Projector {
	return &Projector{}
}

// Current returns the most recently built tree, or nil before the first Build.
func (p *Projector) Current() *Tree {
	return p.current
}

// Build projects snap into a new tree. Every container whose path existed in
// the previous generation keeps that generation's Expanded flag, including
// changes made to it since it was built. New paths take their defaults:
// endpoints and Messages open, message types and Parameters closed.
func (p *Projector) Build(snap *store.Snapshot) *Tree {
	prev := expansionIndex(p.current)

	t := &Tree{}
	if snap != nil {
		t.Roots = make([]*Node, 0, len(snap.Endpoints))
		for _, ep := range snap.Endpoints {
			t.Roots = append(t.Roots, endpointNode(ep))
		}
	}

	t.Walk(func(path Path, n *Node) {
		if !n.IsContainer() {
			return
		}
		if exp, ok := prev[path.key()]; ok {
			n.Expanded = exp
		}
	})

	p.current = t
	return t
}

func expansionIndex(t *Tree) map[string]bool {
	idx := make(map[string]bool)
	t.Walk(func(path Path, n *Node) {
		if n.IsContainer() {
			idx[path.key()] = n.Expanded
		}
	})
	return idx
}

func endpointNode(ep store.EndpointSnapshot) *Node {
	n := Container(ep.Key, true,
		Leaf(KeySystemID, fmt.Sprint(ep.Identity.SystemID)),
		Leaf(KeyComponentID, ComponentLabel(ep.Identity.ComponentID)),
	)

	if len(ep.Messages) > 0 {
		msgs := Container(KeyMessages, true)
		for _, m := range ep.Messages {
			msgs.Add(messageNode(m))
		}
		n.Add(msgs)
	}

	if len(ep.Parameters) > 0 {
		params := Container(KeyParameters, false)
		for _, prm := range ep.Parameters {
			params.Add(Leaf(prm.ID, FormatValue(prm.Value)))
		}
		n.Add(params)
	}
	return n
}

func messageNode(m store.MessageSnapshot) *Node {
	n := Container(m.Type, false)

	summary := FrequencySummary(m.Stats)
	if summary != "" {
		n.DisplaySuffix = " [" + summary + "]"
		n.Add(Leaf(KeyFrequency, summary))
	}

	if m.Record.IsText() {
		n.Add(textLines(m.Record.Text)...)
		return n
	}
	for _, f := range m.Record.Fields {
		n.Add(Leaf(f.Name, FormatValue(f.Value)))
	}
	return n
}

// textLines splits a text payload into numbered leaves: "001", "002", ...
// for multi-line text and "000" for a single line. A trailing empty line is
// dropped.
func textLines(text string) []*Node {
	lines := strings.Split(text, "\n")
	out := make([]*Node, 0, len(lines))
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			continue
		}
		key := "000"
		if len(lines) > 1 {
			key = fmt.Sprintf("%03d", i+1)
		}
		out = append(out, Leaf(key, line))
	}
	return out
}

// FrequencySummary renders "{hz} Hz, {count} msgs", or "{count} msgs" when
// the rate is zero. It returns "" for a type that was never observed.
func FrequencySummary(f stats.Frequency) string {
	if f.Count == 0 {
		return ""
	}
	if f.Hz > 0 {
		return fmt.Sprintf("%.1f Hz, %d msgs", f.Hz, f.Count)
	}
	return fmt.Sprintf("%d msgs", f.Count)
}

// FormatValue renders a leaf value. Floats use four decimals; everything
// else uses its natural form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.4f", x)
	case float32:
		return fmt.Sprintf("%.4f", x)
	case []byte:
		return string(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
