package ingest

import "github.com/prometheus/client_golang/prometheus"

// Message categories used as the metrics label.
const (
	CategoryStatus    = "status"
	CategoryParameter = "parameter"
	CategoryRecord    = "record"
)

// Metrics are the ingestion counters exported for scraping.
type Metrics struct {
	messages  *prometheus.CounterVec
	dropped   prometheus.Counter
	endpoints prometheus.Gauge
}

// NewMetrics creates the ingestion metrics and registers them on reg. A nil
// reg leaves them unregistered, which is what tests and embedders without a
// metrics endpoint want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavinspect_messages_total",
			Help: "Messages accepted from the bus, by category.",
		}, []string{"category"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mavinspect_messages_dropped_total",
			Help: "Frames dropped because they could not be decoded.",
		}),
		endpoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mavinspect_endpoints",
			Help: "Distinct endpoints seen since startup.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.messages, m.dropped, m.endpoints)
	}
	return m
}

func (m *Metrics) accepted(category string) {
	m.messages.WithLabelValues(category).Inc()
}

func (m *Metrics) droppedFrame() {
	m.dropped.Inc()
}

func (m *Metrics) setEndpoints(n int) {
	m.endpoints.Set(float64(n))
}
