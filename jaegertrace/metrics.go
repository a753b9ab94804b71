package jaegertrace

import (
	"github.com/theplant/jaegertrace/monitoring"
)

// Metrics wraps a monitoring.Monitor collaborator behind the named
// counters the sampler/reporter core reports against. Metrics is an
// explicit constructor argument, never a package-level global.
type Metrics struct {
	monitor monitoring.Monitor
}

func NewMetrics(monitor monitoring.Monitor) *Metrics {
	return &Metrics{monitor: monitor}
}

func (m *Metrics) SpansSubmitted(n int) {
	m.monitor.CountSimple("jaegertrace.spans_submitted", float64(n))
}

func (m *Metrics) SpansDropped(n int) {
	m.monitor.CountSimple("jaegertrace.spans_dropped", float64(n))
}

func (m *Metrics) SpansFlushed(n int) {
	m.monitor.CountSimple("jaegertrace.spans_flushed", float64(n))
}

func (m *Metrics) SpansFailed(n int) {
	m.monitor.CountSimple("jaegertrace.spans_failed", float64(n))
}

func (m *Metrics) SpansTooLarge(n int) {
	m.monitor.CountSimple("jaegertrace.spans_too_large", float64(n))
}

func (m *Metrics) SamplerQueryFailure(err error) {
	m.monitor.CountError("jaegertrace.sampler_query_failure", 1, err)
}
