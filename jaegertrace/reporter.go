package jaegertrace

import (
	"sync"
	"time"

	"github.com/theplant/jaegertrace/log"
)

// Reporter receives completed spans from the tracer facade and does
// something with them: ship them remotely, log them, drop them, or
// fan out to several other reporters.
type Reporter interface {
	Report(span Span)
	Close()
}

// NullReporter drops every span it is given.
type NullReporter struct{}

func NewNullReporter() *NullReporter       { return &NullReporter{} }
func (r *NullReporter) Report(span Span)   {}
func (r *NullReporter) Close()             {}

// LoggingReporter logs every span at Info level and drops it.
type LoggingReporter struct {
	logger log.Logger
}

func NewLoggingReporter(logger log.Logger) *LoggingReporter {
	if logger.Levels == nil {
		logger = log.Default()
	}
	return &LoggingReporter{logger: logger}
}

func (r *LoggingReporter) Report(span Span) {
	r.logger.Info().Log(
		"msg", "reporting span",
		"operation", span.OperationName(),
		"trace_id", span.TraceID().String(),
		"span_id", span.SpanID().String(),
	)
}

func (r *LoggingReporter) Close() {}

// InMemoryReporter keeps every reported span in a mutex-guarded
// slice, for use in this module's own tests in place of a mock.
type InMemoryReporter struct {
	mu    sync.Mutex
	spans []Span
}

func NewInMemoryReporter() *InMemoryReporter {
	return &InMemoryReporter{}
}

func (r *InMemoryReporter) Report(span Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, span)
}

func (r *InMemoryReporter) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	spans := make([]Span, len(r.spans))
	copy(spans, r.spans)
	return spans
}

func (r *InMemoryReporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = nil
}

func (r *InMemoryReporter) Close() {}

// CompositeReporter fans each span out to every child reporter, in order.
type CompositeReporter struct {
	reporters []Reporter
}

func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (r *CompositeReporter) Report(span Span) {
	for _, reporter := range r.reporters {
		reporter.Report(span)
	}
}

func (r *CompositeReporter) Close() {
	for _, reporter := range r.reporters {
		reporter.Close()
	}
}

// RemoteReporter decouples span completion from network emission: Report
// enqueues onto a bounded channel (dropping on overflow) and a single
// worker goroutine batches spans into Transport, flushing on a timer
// or on shutdown.
type RemoteReporter struct {
	queue     *spanQueue
	transport Transport
	logger    log.Logger
	metrics   *Metrics

	flushInterval time.Duration

	closeOnce sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewRemoteReporter(cfg ReporterConfig, transport Transport, logger log.Logger, metrics *Metrics) *RemoteReporter {
	if logger.Levels == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(noopMonitor{})
	}
	flushInterval := cfg.BufferFlushInterval
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	r := &RemoteReporter{
		queue:         newSpanQueue(queueSize),
		transport:     transport,
		logger:        logger,
		metrics:       metrics,
		flushInterval: flushInterval,
		stop:          make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

func (r *RemoteReporter) Report(span Span) {
	select {
	case <-r.stop:
		r.metrics.SpansDropped(1)
		return
	default:
	}

	if r.queue.offer(span) {
		r.metrics.SpansSubmitted(1)
	} else {
		r.metrics.SpansDropped(1)
	}
}

func (r *RemoteReporter) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		r.wg.Wait()
	})
}

func (r *RemoteReporter) worker() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case span := <-r.queue.spans:
			r.appendSpan(span)
		case <-ticker.C:
			r.flush()
		case <-r.stop:
			r.drain()
			r.flush()
			if err := r.transport.Close(); err != nil {
				r.logger.Warn().Log("msg", "closing transport", "err", err)
			}
			return
		}
	}
}

func (r *RemoteReporter) appendSpan(span Span) {
	n, err := r.transport.Append(span)
	r.queue.sent.Add(int64(n))
	r.metrics.SpansFlushed(n)
	if err != nil {
		r.queue.failed.Inc()
		if err == ErrSpanTooLarge {
			r.metrics.SpansTooLarge(1)
		} else {
			r.metrics.SpansFailed(1)
		}
		r.logger.Warn().Log("msg", "appending span to transport", "err", err)
	}
}

func (r *RemoteReporter) flush() {
	n, err := r.transport.Flush()
	r.queue.sent.Add(int64(n))
	r.metrics.SpansFlushed(n)
	if err != nil {
		r.queue.failed.Inc()
		r.metrics.SpansFailed(1)
		r.logger.Warn().Log("msg", "flushing transport", "err", err)
	}
}

func (r *RemoteReporter) drain() {
	for {
		select {
		case span := <-r.queue.spans:
			r.appendSpan(span)
		default:
			return
		}
	}
}

// noopMonitor backs the Metrics that NewRemoteReporter creates when it
// is given nil, so RemoteReporter never needs a nil check on its hot path.
type noopMonitor struct{}

func (noopMonitor) InsertRecord(measurement string, value interface{}, tags map[string]string, fields map[string]interface{}, t time.Time) {
}
func (noopMonitor) Count(measurement string, value float64, tags map[string]string, fields map[string]interface{}) {
}
func (noopMonitor) CountError(measurement string, value float64, err error) {}
func (noopMonitor) CountSimple(measurement string, value float64)          {}
