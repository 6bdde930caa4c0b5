// Package ingest drains a bus into the store.
package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rileyhilliard/mavinspect/internal/bus"
	"github.com/rileyhilliard/mavinspect/internal/logger"
	"github.com/rileyhilliard/mavinspect/internal/store"
)

// DefaultPollTimeout bounds each wait on the bus.
const DefaultPollTimeout = time.Second

// Options configures an Ingestor.
type Options struct {
	// PollTimeout bounds each Receive call. Zero uses DefaultPollTimeout.
	PollTimeout time.Duration
	// Verbose stores each record as a formatted multi-line dump instead of
	// its field list.
	Verbose bool
	// Clock stamps arrivals. Nil uses the wall clock.
	Clock clock.Clock
	// Logger receives lifecycle and debug output. Nil discards it.
	Logger logger.Logger
	// Metrics counts messages. Nil keeps unregistered counters.
	Metrics *Metrics
}

// Ingestor classifies messages from a bus and writes them to a store.
type Ingestor struct {
	bus     bus.Bus
	store   *store.Store
	poll    time.Duration
	verbose bool
	clock   clock.Clock
	log     logger.Logger
	metrics *Metrics

	mu  sync.Mutex
	err error
}

// New creates an ingestor reading b into s.
func New(b bus.Bus, s *store.Store, opts Options) *Ingestor {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Ingestor{
		bus:     b,
		store:   s,
		poll:    opts.PollTimeout,
		verbose: opts.Verbose,
		clock:   opts.Clock,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

// Run polls the bus until ctx is cancelled or the connection is lost. A lost
// connection is logged once and recorded for Err, and Run returns nil so the
// rest of the program keeps showing the last known state. There is no
// reconnect.
func (i *Ingestor) Run(ctx context.Context) error {
	i.log.Debug("ingest started (poll %s, verbose %t)", i.poll, i.verbose)
	for {
		msg, err := i.bus.Receive(ctx, i.poll)
		if err != nil {
			if ctx.Err() != nil {
				i.log.Debug("ingest stopped")
				return nil
			}
			i.setErr(err)
			if errors.Is(err, bus.ErrClosed) {
				i.log.Error("connection lost: %v", err)
			} else {
				i.log.Error("receive failed: %v", err)
			}
			return nil
		}
		if msg == nil {
			continue
		}
		i.Handle(msg)
	}
}

// Handle classifies one message and applies it to the store.
func (i *Ingestor) Handle(msg *bus.Message) {
	if msg == nil || msg.IsBadData() {
		i.metrics.droppedFrame()
		return
	}

	id := store.IdentityOf(msg)
	now := i.clock.Now()

	switch msg.Type {
	case bus.TypeStatusText:
		text, _ := stringField(msg, "text")
		sev := store.SeverityNone
		if v, ok := msg.Field("severity"); ok {
			if n, ok := toInt(v); ok {
				sev = store.Severity(n)
			}
		}
		if i.store.AppendStatus(id, msg.Type, text, sev, now) {
			i.log.Debug("status from %s: %s", id.Key(), text)
		}
		i.metrics.accepted(CategoryStatus)

	case bus.TypeParamValue:
		paramID, ok := stringField(msg, "param_id")
		if !ok {
			// Still counts toward the endpoint's arrival rate.
			i.store.Touch(id, msg.Type, now)
			i.log.Debug("%s from %s without param_id", msg.Type, id.Key())
			i.metrics.accepted(CategoryParameter)
			break
		}
		value, _ := msg.Field("param_value")
		i.store.UpsertParameter(id, msg.Type, paramID, value, now)
		i.metrics.accepted(CategoryParameter)

	default:
		i.store.UpsertRecord(id, msg.Type, i.record(msg, now), now)
		i.metrics.accepted(CategoryRecord)
	}

	i.metrics.setEndpoints(i.store.EndpointCount())
}

func (i *Ingestor) record(msg *bus.Message, now time.Time) store.Record {
	switch {
	case i.verbose && msg.Text != "":
		return store.TextRecord(msg.Text, now)
	case i.verbose:
		return store.TextRecord(bus.FormatVerbose(msg), now)
	case len(msg.Fields) == 0 && msg.Text != "":
		return store.TextRecord(msg.Text, now)
	default:
		return store.FieldRecord(msg.Fields, now)
	}
}

// Err returns the error that ended Run, or nil if it ended by cancellation
// or is still running.
func (i *Ingestor) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

func (i *Ingestor) setErr(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.err = err
}

func stringField(msg *bus.Message, name string) (string, bool) {
	v, ok := msg.Field(name)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// toInt converts the integer and float encodings a decoder may produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
