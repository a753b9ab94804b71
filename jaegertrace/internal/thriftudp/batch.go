// Package thriftudp defines the minimal thrift-compact wire shapes
// needed to frame a batch of spans for the Jaeger agent's UDP
// endpoint: a hand-rolled Batch{Process, Spans} structure and an
// encoder that writes it through a thrift.TProtocol, grounded on the
// real jaeger-client-go agent.thrift IDL.
package thriftudp

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// TagType selects which field of Tag is populated, mirroring
// jaeger.thrift's TagType enum.
type TagType int32

const (
	TagTypeString TagType = iota
	TagTypeDouble
	TagTypeBool
	TagTypeLong
	TagTypeBinary
)

// Tag is the wire shape of a jaegertrace.Tag.
type Tag struct {
	Key     string
	VType   TagType
	VStr    string
	VDouble float64
	VBool   bool
	VLong   int64
	VBinary []byte
}

// Log is the wire shape of a jaegertrace.LogRecord.
type Log struct {
	Timestamp int64 // microseconds since epoch
	Fields    []Tag
}

// Span is the wire shape of a jaegertrace.Span.
type Span struct {
	TraceIDLow    int64
	TraceIDHigh   int64
	SpanID        int64
	ParentSpanID  int64
	OperationName string
	Flags         int32
	StartTime     int64 // microseconds since epoch
	Duration      int64 // microseconds
	Tags          []Tag
	Logs          []Log
}

// Process describes the service emitting a Batch.
type Process struct {
	ServiceName string
	Tags        []Tag
}

// Batch is one UDP datagram's worth of spans from a single process.
type Batch struct {
	Process *Process
	Spans   []*Span
}

const flagSampled = int32(1)

// Encoder writes Batch values through a thrift.TProtocol (compact
// protocol, per the agent's UDP wire format).
type Encoder struct {
	protocol thrift.TProtocol
}

func NewEncoder(protocol thrift.TProtocol) *Encoder {
	return &Encoder{protocol: protocol}
}

func (e *Encoder) WriteBatch(ctx context.Context, batch *Batch) error {
	p := e.protocol

	if err := p.WriteStructBegin(ctx, "Batch"); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "process", thrift.STRUCT, 1); err != nil {
		return err
	}
	if err := e.writeProcess(ctx, batch.Process); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "spans", thrift.LIST, 2); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(batch.Spans)); err != nil {
		return err
	}
	for _, span := range batch.Spans {
		if err := e.writeSpan(ctx, span); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (e *Encoder) writeProcess(ctx context.Context, process *Process) error {
	p := e.protocol

	if err := p.WriteStructBegin(ctx, "Process"); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "serviceName", thrift.STRING, 1); err != nil {
		return err
	}
	if err := p.WriteString(ctx, process.ServiceName); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if len(process.Tags) > 0 {
		if err := p.WriteFieldBegin(ctx, "tags", thrift.LIST, 2); err != nil {
			return err
		}
		if err := e.writeTags(ctx, process.Tags); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (e *Encoder) writeSpan(ctx context.Context, span *Span) error {
	p := e.protocol

	if err := p.WriteStructBegin(ctx, "Span"); err != nil {
		return err
	}

	fields := []struct {
		name string
		id   int16
		typ  thrift.TType
		val  int64
	}{
		{"traceIdLow", 1, thrift.I64, span.TraceIDLow},
		{"traceIdHigh", 2, thrift.I64, span.TraceIDHigh},
		{"spanId", 3, thrift.I64, span.SpanID},
		{"parentSpanId", 4, thrift.I64, span.ParentSpanID},
	}
	for _, f := range fields {
		if err := p.WriteFieldBegin(ctx, f.name, f.typ, f.id); err != nil {
			return err
		}
		if err := p.WriteI64(ctx, f.val); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := p.WriteFieldBegin(ctx, "operationName", thrift.STRING, 5); err != nil {
		return err
	}
	if err := p.WriteString(ctx, span.OperationName); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "flags", thrift.I32, 7); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, span.Flags); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "startTime", thrift.I64, 8); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, span.StartTime); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "duration", thrift.I64, 9); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, span.Duration); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if len(span.Tags) > 0 {
		if err := p.WriteFieldBegin(ctx, "tags", thrift.LIST, 10); err != nil {
			return err
		}
		if err := e.writeTags(ctx, span.Tags); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}

	if len(span.Logs) > 0 {
		if err := p.WriteFieldBegin(ctx, "logs", thrift.LIST, 11); err != nil {
			return err
		}
		if err := p.WriteListBegin(ctx, thrift.STRUCT, len(span.Logs)); err != nil {
			return err
		}
		for _, l := range span.Logs {
			if err := e.writeLog(ctx, l); err != nil {
				return err
			}
		}
		if err := p.WriteListEnd(ctx); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (e *Encoder) writeLog(ctx context.Context, l Log) error {
	p := e.protocol

	if err := p.WriteStructBegin(ctx, "Log"); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "timestamp", thrift.I64, 1); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, l.Timestamp); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "fields", thrift.LIST, 2); err != nil {
		return err
	}
	if err := e.writeTags(ctx, l.Fields); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (e *Encoder) writeTags(ctx context.Context, tags []Tag) error {
	p := e.protocol

	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(tags)); err != nil {
		return err
	}
	for _, t := range tags {
		if err := e.writeTag(ctx, t); err != nil {
			return err
		}
	}
	return p.WriteListEnd(ctx)
}

func (e *Encoder) writeTag(ctx context.Context, t Tag) error {
	p := e.protocol

	if err := p.WriteStructBegin(ctx, "Tag"); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "key", thrift.STRING, 1); err != nil {
		return err
	}
	if err := p.WriteString(ctx, t.Key); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "vType", thrift.I32, 2); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, int32(t.VType)); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	switch t.VType {
	case TagTypeString:
		if err := p.WriteFieldBegin(ctx, "vStr", thrift.STRING, 3); err != nil {
			return err
		}
		if err := p.WriteString(ctx, t.VStr); err != nil {
			return err
		}
	case TagTypeDouble:
		if err := p.WriteFieldBegin(ctx, "vDouble", thrift.DOUBLE, 4); err != nil {
			return err
		}
		if err := p.WriteDouble(ctx, t.VDouble); err != nil {
			return err
		}
	case TagTypeBool:
		if err := p.WriteFieldBegin(ctx, "vBool", thrift.BOOL, 5); err != nil {
			return err
		}
		if err := p.WriteBool(ctx, t.VBool); err != nil {
			return err
		}
	case TagTypeLong:
		if err := p.WriteFieldBegin(ctx, "vLong", thrift.I64, 6); err != nil {
			return err
		}
		if err := p.WriteI64(ctx, t.VLong); err != nil {
			return err
		}
	case TagTypeBinary:
		if err := p.WriteFieldBegin(ctx, "vBinary", thrift.STRING, 7); err != nil {
			return err
		}
		if err := p.WriteBinary(ctx, t.VBinary); err != nil {
			return err
		}
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

// FromSpan converts a span's public accessors into the wire shape.
func FromSpan(traceIDHigh, traceIDLow uint64, spanID, parentSpanID uint64, operationName string, sampled bool, startTime int64, duration int64, tags []Tag, logs []Log) *Span {
	flags := int32(0)
	if sampled {
		flags = flagSampled
	}
	return &Span{
		TraceIDLow:    int64(traceIDLow),
		TraceIDHigh:   int64(traceIDHigh),
		SpanID:        int64(spanID),
		ParentSpanID:  int64(parentSpanID),
		OperationName: operationName,
		Flags:         flags,
		StartTime:     startTime,
		Duration:      duration,
		Tags:          tags,
		Logs:          logs,
	}
}

// StringTag, DoubleTag, BoolTag, LongTag and BinaryTag build a wire Tag
// of the matching TagType from a key and a scalar value.
func StringTag(key, value string) Tag    { return Tag{Key: key, VType: TagTypeString, VStr: value} }
func DoubleTag(key string, value float64) Tag {
	return Tag{Key: key, VType: TagTypeDouble, VDouble: value}
}
func BoolTag(key string, value bool) Tag { return Tag{Key: key, VType: TagTypeBool, VBool: value} }
func LongTag(key string, value int64) Tag { return Tag{Key: key, VType: TagTypeLong, VLong: value} }
func BinaryTag(key string, value []byte) Tag {
	return Tag{Key: key, VType: TagTypeBinary, VBinary: value}
}
