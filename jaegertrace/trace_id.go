// Package jaegertrace implements the sampler hierarchy and reporter
// pipeline of a Jaeger-agent-protocol tracing client: the pieces that
// decide whether a trace is recorded and that ship recorded spans to
// a remote agent over UDP.
package jaegertrace

import "fmt"

// TraceID identifies a trace by its 128-bit value, split into two
// 64-bit halves. Sampling decisions only ever look at Low.
type TraceID struct {
	High uint64
	Low  uint64
}

func (t TraceID) String() string {
	if t.High == 0 {
		return fmt.Sprintf("%x", t.Low)
	}
	return fmt.Sprintf("%x%016x", t.High, t.Low)
}

// SpanID identifies a span within a trace.
type SpanID uint64

func (s SpanID) String() string {
	return fmt.Sprintf("%x", uint64(s))
}
