package jaegertrace

import "go.uber.org/atomic"

// spanQueue is a bounded, multi-producer/single-consumer FIFO backed
// by a buffered channel, which acts as both the bound and the
// condvar. Report (the producer side) never blocks: a full queue
// drops the span.
type spanQueue struct {
	spans chan Span

	enqueued atomic.Int64
	dropped  atomic.Int64
	sent     atomic.Int64
	failed   atomic.Int64
}

func newSpanQueue(capacity int) *spanQueue {
	return &spanQueue{spans: make(chan Span, capacity)}
}

// offer enqueues span without blocking, reporting whether it was
// accepted.
func (q *spanQueue) offer(span Span) bool {
	select {
	case q.spans <- span:
		q.enqueued.Inc()
		return true
	default:
		q.dropped.Inc()
		return false
	}
}
