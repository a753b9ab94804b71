package jaegertrace

import (
	"sync"
	"testing"
	"time"

	"github.com/theplant/jaegertrace/log"
)

type fakeSpan struct {
	traceID TraceID
	spanID  SpanID
}

func (s fakeSpan) TraceID() TraceID          { return s.traceID }
func (s fakeSpan) SpanID() SpanID            { return s.spanID }
func (s fakeSpan) ParentSpanID() SpanID      { return 0 }
func (s fakeSpan) OperationName() string     { return "op" }
func (s fakeSpan) StartTime() time.Time      { return time.Now() }
func (s fakeSpan) Duration() time.Duration   { return time.Millisecond }
func (s fakeSpan) Tags() []Tag               { return nil }
func (s fakeSpan) Logs() []LogRecord         { return nil }
func (s fakeSpan) Size() int                 { return 64 }

type fakeTransport struct {
	mu    sync.Mutex
	spans []Span
}

func (t *fakeTransport) Append(span Span) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, span)
	return 1, nil
}

func (t *fakeTransport) Flush() (int, error) { return 0, nil }
func (t *fakeTransport) Close() error        { return nil }

func (t *fakeTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

func TestRemoteReporterS6(t *testing.T) {
	transport := &fakeTransport{}
	reporter := NewRemoteReporter(
		ReporterConfig{BufferFlushInterval: time.Millisecond, QueueSize: 1},
		transport,
		log.Default(),
		nil,
	)
	defer reporter.Close()

	for i := 0; i < 100; i++ {
		reporter.Report(fakeSpan{traceID: TraceID{Low: uint64(i)}, spanID: SpanID(i)})
	}

	waitForCondition(t, time.Second, func() bool {
		return transport.count() == 100
	})
}

func TestSpanQueueDropsOnOverflow(t *testing.T) {
	q := newSpanQueue(1)

	if !q.offer(fakeSpan{traceID: TraceID{Low: 1}, spanID: 1}) {
		t.Fatalf("expected first offer into an empty queue of capacity 1 to succeed")
	}
	if q.offer(fakeSpan{traceID: TraceID{Low: 2}, spanID: 2}) {
		t.Fatalf("expected second offer into a full queue to be dropped")
	}
	if q.enqueued.Load() != 1 || q.dropped.Load() != 1 {
		t.Fatalf("enqueued=%d dropped=%d, want 1 and 1", q.enqueued.Load(), q.dropped.Load())
	}
}

func TestRemoteReporterCloseIsIdempotentAndStopsAcceptingSpans(t *testing.T) {
	transport := &fakeTransport{}
	reporter := NewRemoteReporter(DefaultReporterConfig(), transport, log.Default(), nil)

	reporter.Close()
	reporter.Close()

	reporter.Report(fakeSpan{traceID: TraceID{Low: 1}, spanID: 1})
	if transport.count() != 0 {
		t.Fatalf("expected Report after Close to be a no-op")
	}
}
