package logtracing

import (
	"encoding/binary"

	"github.com/theplant/jaegertrace/jaegertrace"
)

type Sampler func(SamplingParameters) bool

type SamplingParameters struct {
	ParentMeta spanMeta
	TraceID    TraceID
	SpanID     SpanID
	Name       string
}

func ProbabilitySampler(fraction float64) Sampler {
	if !(fraction >= 0) {
		fraction = 0
	} else if fraction >= 1 {
		return AlwaysSample()
	}

	traceIDUpperBound := uint64(fraction * (1 << 63))
	return Sampler(func(p SamplingParameters) bool {
		if p.ParentMeta.IsSampled {
			return true
		}
		x := binary.BigEndian.Uint64(p.TraceID[0:8]) >> 1
		return x < traceIDUpperBound
	})
}

func AlwaysSample() Sampler {
	return func(p SamplingParameters) bool {
		return true
	}
}

func NeverSample() Sampler {
	return func(p SamplingParameters) bool {
		return false
	}
}

// FromJaegerSampler adapts a jaegertrace.Sampler (the sampler
// hierarchy's ConstSampler/ProbabilisticSampler/RateLimitingSampler/
// PerOperationSampler/RemoteSampler) into this package's own Sampler
// func type, so the facade's default sampling runs through the spec's
// sampler hierarchy instead of the ad hoc ProbabilitySampler above.
func FromJaegerSampler(js jaegertrace.Sampler) Sampler {
	return func(p SamplingParameters) bool {
		if p.ParentMeta.IsSampled {
			return true
		}
		id := jaegertrace.TraceID{
			High: binary.BigEndian.Uint64(p.TraceID[0:8]),
			Low:  binary.BigEndian.Uint64(p.TraceID[8:16]),
		}
		return js.IsSampled(id, p.Name).Sampled
	}
}
