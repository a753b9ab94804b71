package jaegertrace

import (
	"fmt"

	"github.com/theplant/jaegertrace/log"
)

const maxSamplingRateBoundary = uint64(1) << 63

// ProbabilisticSampler samples a fraction of trace IDs uniformly at
// random, by thresholding the low 64 bits of the trace ID against a
// boundary derived from the configured rate.
//
// Grounded on logtracing.ProbabilitySampler's x := low>>1 < boundary
// comparison.
type ProbabilisticSampler struct {
	rate     float64
	boundary uint64
}

// NewProbabilisticSampler clamps rate to [0,1] and logs a Warn line
// via logger if clamping was necessary; a zero-value logger (nil
// Levels) is replaced by log.Default().
func NewProbabilisticSampler(rate float64, logger log.Logger) *ProbabilisticSampler {
	if logger.Levels == nil {
		logger = log.Default()
	}
	clamped := rate
	if clamped < 0 {
		clamped = 0
	} else if clamped > 1 {
		clamped = 1
	}
	if clamped != rate {
		logger.Warn().Log(
			"msg", fmt.Sprintf("sampling rate %v out of range [0,1], clamped to %v", rate, clamped),
			"rate", rate,
			"clamped", clamped,
		)
	}
	return &ProbabilisticSampler{
		rate:     clamped,
		boundary: uint64(clamped * float64(maxSamplingRateBoundary)),
	}
}

func (s *ProbabilisticSampler) Rate() float64 { return s.rate }

func (s *ProbabilisticSampler) IsSampled(id TraceID, operation string) SamplingStatus {
	x := id.Low >> 1
	return SamplingStatus{
		Sampled: x < s.boundary,
		Tags:    samplerTags(SamplerTypeProbabilistic, s.rate),
	}
}

func (s *ProbabilisticSampler) Close() {}
