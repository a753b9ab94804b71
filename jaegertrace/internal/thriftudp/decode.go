package thriftudp

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Decoder reads Batch values back out of a thrift.TProtocol, the
// mirror image of Encoder. Used by this repo's own transport tests to
// assert round-trip fidelity without a real Jaeger agent.
type Decoder struct {
	protocol thrift.TProtocol
}

func NewDecoder(protocol thrift.TProtocol) *Decoder {
	return &Decoder{protocol: protocol}
}

func (d *Decoder) ReadBatch(ctx context.Context) (*Batch, error) {
	p := d.protocol

	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}

	batch := &Batch{}

	for {
		_, fieldType, fieldID, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if fieldType == thrift.STOP {
			break
		}

		switch fieldID {
		case 1:
			process, err := d.readProcess(ctx)
			if err != nil {
				return nil, err
			}
			batch.Process = process
		case 2:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return nil, err
			}
			for i := 0; i < size; i++ {
				span, err := d.readSpan(ctx)
				if err != nil {
					return nil, err
				}
				batch.Spans = append(batch.Spans, span)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return nil, err
			}
		default:
			if err := p.Skip(ctx, fieldType); err != nil {
				return nil, err
			}
		}

		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}

	if err := p.ReadStructEnd(ctx); err != nil {
		return nil, err
	}
	return batch, nil
}

func (d *Decoder) readProcess(ctx context.Context) (*Process, error) {
	p := d.protocol

	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	process := &Process{}

	for {
		_, fieldType, fieldID, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			s, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			process.ServiceName = s
		case 2:
			tags, err := d.readTags(ctx)
			if err != nil {
				return nil, err
			}
			process.Tags = tags
		default:
			if err := p.Skip(ctx, fieldType); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}

	if err := p.ReadStructEnd(ctx); err != nil {
		return nil, err
	}
	return process, nil
}

func (d *Decoder) readSpan(ctx context.Context) (*Span, error) {
	p := d.protocol

	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	span := &Span{}

	for {
		_, fieldType, fieldID, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if fieldType == thrift.STOP {
			break
		}

		switch fieldID {
		case 1:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.TraceIDLow = v
		case 2:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.TraceIDHigh = v
		case 3:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.SpanID = v
		case 4:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.ParentSpanID = v
		case 5:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			span.OperationName = v
		case 7:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			span.Flags = v
		case 8:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.StartTime = v
		case 9:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			span.Duration = v
		case 10:
			tags, err := d.readTags(ctx)
			if err != nil {
				return nil, err
			}
			span.Tags = tags
		case 11:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return nil, err
			}
			for i := 0; i < size; i++ {
				l, err := d.readLog(ctx)
				if err != nil {
					return nil, err
				}
				span.Logs = append(span.Logs, l)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return nil, err
			}
		default:
			if err := p.Skip(ctx, fieldType); err != nil {
				return nil, err
			}
		}

		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}

	if err := p.ReadStructEnd(ctx); err != nil {
		return nil, err
	}
	return span, nil
}

func (d *Decoder) readLog(ctx context.Context) (Log, error) {
	p := d.protocol

	if _, err := p.ReadStructBegin(ctx); err != nil {
		return Log{}, err
	}
	var l Log

	for {
		_, fieldType, fieldID, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return Log{}, err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return Log{}, err
			}
			l.Timestamp = v
		case 2:
			tags, err := d.readTags(ctx)
			if err != nil {
				return Log{}, err
			}
			l.Fields = tags
		default:
			if err := p.Skip(ctx, fieldType); err != nil {
				return Log{}, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return Log{}, err
		}
	}

	if err := p.ReadStructEnd(ctx); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (d *Decoder) readTags(ctx context.Context) ([]Tag, error) {
	p := d.protocol

	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, 0, size)
	for i := 0; i < size; i++ {
		t, err := d.readTag(ctx)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := p.ReadListEnd(ctx); err != nil {
		return nil, err
	}
	return tags, nil
}

func (d *Decoder) readTag(ctx context.Context) (Tag, error) {
	p := d.protocol

	if _, err := p.ReadStructBegin(ctx); err != nil {
		return Tag{}, err
	}
	var t Tag

	for {
		_, fieldType, fieldID, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return Tag{}, err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := p.ReadString(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.Key = v
		case 2:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VType = TagType(v)
		case 3:
			v, err := p.ReadString(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VStr = v
		case 4:
			v, err := p.ReadDouble(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VDouble = v
		case 5:
			v, err := p.ReadBool(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VBool = v
		case 6:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VLong = v
		case 7:
			v, err := p.ReadBinary(ctx)
			if err != nil {
				return Tag{}, err
			}
			t.VBinary = v
		default:
			return Tag{}, fmt.Errorf("thriftudp: unexpected tag field id %d", fieldID)
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return Tag{}, err
		}
	}

	if err := p.ReadStructEnd(ctx); err != nil {
		return Tag{}, err
	}
	return t, nil
}
