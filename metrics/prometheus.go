package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink records execution events as a counter vector keyed by
// event and status, for scraping alongside the rest of a deployment's
// Prometheus metrics. It never performs I/O on Emit itself — the
// registry is read only when scraped.
type PrometheusSink struct {
	counter *prometheus.CounterVec
}

// NewPrometheusSink registers a queuectl_job_events_total counter with
// reg (when reg is non-nil) and returns a sink backed by it. It panics if
// reg already holds a collector with that name.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queuectl_job_events_total",
		Help: "Count of job lifecycle events observed by workers.",
	}, []string{"event", "status"})
	if reg != nil {
		reg.MustRegister(counter)
	}
	return &PrometheusSink{counter: counter}
}

// Emit increments the counter for (event, status). JobID is not a label
// to avoid unbounded cardinality.
func (s *PrometheusSink) Emit(event, jobID string, status string) {
	s.counter.WithLabelValues(event, status).Inc()
}

// Close is a no-op; the registry outlives the sink.
func (s *PrometheusSink) Close() error {
	return nil
}
