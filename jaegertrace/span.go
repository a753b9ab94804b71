package jaegertrace

import "time"

// LogRecord is a single timestamped event attached to a span.
type LogRecord struct {
	Timestamp time.Time
	Fields    []Tag
}

// Span is consumed only: the reporter and transport never construct
// one, they only read it. A concrete tracer facade (out of scope
// here) supplies the implementation.
type Span interface {
	TraceID() TraceID
	SpanID() SpanID
	ParentSpanID() SpanID
	OperationName() string
	StartTime() time.Time
	Duration() time.Duration
	Tags() []Tag
	Logs() []LogRecord

	// Size estimates the encoded wire size in bytes, used for packet
	// budgeting before the real thrift encoding is attempted.
	Size() int
}
