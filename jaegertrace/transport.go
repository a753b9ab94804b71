package jaegertrace

import "errors"

// ErrSpanTooLarge is returned by a Transport when a single span's
// encoded size alone exceeds the transport's packet budget. Such
// spans are never retried.
var ErrSpanTooLarge = errors.New("jaegertrace: span exceeds maximum packet size")

// Transport emits spans to a remote agent. The UDP implementation
// lives in jaegertrace/transport.
type Transport interface {
	// Append adds span to the current batch, flushing it first if
	// necessary to stay within the packet budget. It returns the
	// number of spans flushed as a side effect of this call.
	Append(span Span) (int, error)

	// Flush sends whatever is currently buffered. It returns the
	// number of spans flushed.
	Flush() (int, error)

	Close() error
}
