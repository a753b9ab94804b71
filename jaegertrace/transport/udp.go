// Package transport implements jaegertrace.Transport over UDP, the
// way a Jaeger client ships spans to the local agent: thrift-compact
// encoded batches, one per datagram, flushed when the next span would
// push the batch past the packet budget.
//
// Grounded on the vendored jaeger-client-go utils/udp_client.go:
// thrift.NewTCompactProtocolFactory + thrift.NewTMemoryBufferLen to
// size and frame a batch before it is written to the wire.
package transport

import (
	"context"
	"net"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/theplant/jaegertrace/jaegertrace"
	"github.com/theplant/jaegertrace/jaegertrace/internal/thriftudp"
)

// UDPPacketMaxLength is the default maximum UDP datagram size used by
// the Jaeger agent.
const UDPPacketMaxLength = 65000

// UDP ships spans to a Jaeger agent over a UDP socket. It owns an
// internal thrift-encoded batch buffer; per jaegertrace's concurrency
// model this is the exclusive responsibility of the reporter's single
// worker goroutine, so UDP itself does no internal locking.
type UDP struct {
	conn          *net.UDPConn
	maxPacketSize int

	process *thriftudp.Process

	buffer   *thrift.TMemoryBuffer
	protocol thrift.TProtocol
	encoder  *thriftudp.Encoder
	spans    []*thriftudp.Span
}

// NewUDP dials hostPort (e.g. "127.0.0.1:6831") and prepares an empty batch for serviceName.
func NewUDP(hostPort, serviceName string, maxPacketSize int) (*UDP, error) {
	if maxPacketSize <= 0 {
		maxPacketSize = UDPPacketMaxLength
	}

	addr, err := net.ResolveUDPAddr("udp", hostPort)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}

	u := &UDP{
		conn:          conn,
		maxPacketSize: maxPacketSize,
		process:       &thriftudp.Process{ServiceName: serviceName},
	}
	u.resetBuffer()
	return u, nil
}

func (u *UDP) resetBuffer() {
	u.buffer = thrift.NewTMemoryBufferLen(u.maxPacketSize)
	factory := thrift.NewTCompactProtocolFactory()
	u.protocol = factory.GetProtocol(u.buffer)
	u.encoder = thriftudp.NewEncoder(u.protocol)
	u.spans = nil
}

// Append encodes span into the current batch. If doing so would push
// the serialized batch past maxPacketSize, the current batch is
// flushed first and a new one started with just this span. A span
// whose own encoding alone exceeds the budget fails with
// jaegertrace.ErrSpanTooLarge and is never added to any batch.
func (u *UDP) Append(span jaegertrace.Span) (int, error) {
	wireSpan := spanToWire(span)

	// span.Size() is a cheap pre-check: when the estimate leaves
	// enough headroom under the current batch, trust it and skip the
	// full thrift encode below. Only fall back to the exact encoded
	// size near the boundary, where the estimate isn't trustworthy
	// enough to decide whether to flush.
	size := span.Size()
	if size <= 0 || u.buffer.Len()+size > u.maxPacketSize {
		exact, err := u.encodedSize(wireSpan)
		if err != nil {
			return 0, err
		}
		size = exact
	}
	if size > u.maxPacketSize {
		return 0, jaegertrace.ErrSpanTooLarge
	}

	var flushed int
	if u.buffer.Len()+size > u.maxPacketSize && len(u.spans) > 0 {
		n, err := u.Flush()
		if err != nil {
			return n, err
		}
		flushed = n
	}

	u.spans = append(u.spans, wireSpan)
	if err := u.writeCurrentBatch(); err != nil {
		u.spans = u.spans[:len(u.spans)-1]
		return flushed, err
	}

	return flushed, nil
}

func (u *UDP) encodedSize(span *thriftudp.Span) (int, error) {
	buf := thrift.NewTMemoryBufferLen(u.maxPacketSize)
	protocol := thrift.NewTCompactProtocolFactory().GetProtocol(buf)
	batch := &thriftudp.Batch{Process: u.process, Spans: []*thriftudp.Span{span}}
	if err := thriftudp.NewEncoder(protocol).WriteBatch(context.Background(), batch); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func (u *UDP) writeCurrentBatch() error {
	u.buffer.Reset()
	factory := thrift.NewTCompactProtocolFactory()
	u.protocol = factory.GetProtocol(u.buffer)
	u.encoder = thriftudp.NewEncoder(u.protocol)

	batch := &thriftudp.Batch{Process: u.process, Spans: u.spans}
	return u.encoder.WriteBatch(context.Background(), batch)
}

// Flush sends the accumulated batch as one UDP datagram and starts a
// fresh batch. It reports the number of spans flushed.
func (u *UDP) Flush() (int, error) {
	if len(u.spans) == 0 {
		return 0, nil
	}

	n := len(u.spans)
	payload := u.buffer.Bytes()

	_, err := u.conn.Write(payload)
	u.resetBuffer()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (u *UDP) Close() error {
	return u.conn.Close()
}

func spanToWire(span jaegertrace.Span) *thriftudp.Span {
	traceID := span.TraceID()

	var tags []thriftudp.Tag
	for _, t := range span.Tags() {
		tags = append(tags, tagToWire(t))
	}

	var logs []thriftudp.Log
	for _, l := range span.Logs() {
		var fields []thriftudp.Tag
		for _, f := range l.Fields {
			fields = append(fields, tagToWire(f))
		}
		logs = append(logs, thriftudp.Log{
			Timestamp: l.Timestamp.UnixMicro(),
			Fields:    fields,
		})
	}

	return thriftudp.FromSpan(
		traceID.High, traceID.Low,
		uint64(span.SpanID()), uint64(span.ParentSpanID()),
		span.OperationName(), true,
		span.StartTime().UnixMicro(), span.Duration().Microseconds(),
		tags, logs,
	)
}

func tagToWire(t jaegertrace.Tag) thriftudp.Tag {
	switch t.Value.Type {
	case jaegertrace.ValueBool:
		return thriftudp.BoolTag(t.Key, t.Value.Bool)
	case jaegertrace.ValueInt64:
		return thriftudp.LongTag(t.Key, t.Value.Int64)
	case jaegertrace.ValueFloat64:
		return thriftudp.DoubleTag(t.Key, t.Value.Float)
	case jaegertrace.ValueBinary:
		return thriftudp.BinaryTag(t.Key, t.Value.Binary)
	default:
		return thriftudp.StringTag(t.Key, t.Value.String)
	}
}
