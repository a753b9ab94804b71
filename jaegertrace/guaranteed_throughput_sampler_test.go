package jaegertrace

import (
	"testing"

	"github.com/theplant/jaegertrace/log"
)

func TestGuaranteedThroughputSamplerS4(t *testing.T) {
	s := NewGuaranteedThroughputProbabilisticSampler(2.0, 0.5, log.Default())

	s.Update(1.0, 0.6)
	if s.LowerBound() != 1.0 {
		t.Fatalf("LowerBound() = %v, want 1.0", s.LowerBound())
	}
	if s.Rate() != 0.6 {
		t.Fatalf("Rate() = %v, want 0.6", s.Rate())
	}

	s.Update(1.0, 1.1)
	if s.Rate() != 1.0 {
		t.Fatalf("Rate() = %v, want 1.0 (clamped)", s.Rate())
	}
}

func TestGuaranteedThroughputSamplerLowerBoundKicksIn(t *testing.T) {
	// lowerBound=1.0, rate=0.5: TraceID{Low: maxUint64} lands above the
	// probabilistic sampler's threshold, so only the lower bound fires.
	s := NewGuaranteedThroughputProbabilisticSampler(1.0, 0.5, log.Default())

	status := s.IsSampled(TraceID{Low: ^uint64(0)}, "op")
	if !status.Sampled {
		t.Fatalf("expected lower-bound sample when the probabilistic sampler doesn't fire")
	}
	// The tag's sampler.param must be the probabilistic sampler's rate,
	// not the lower bound's credits/sec.
	assertSamplerTags(t, status.Tags, SamplerTypeLowerBound, 0.5)
}

func TestGuaranteedThroughputSamplerNotSampledFallsThrough(t *testing.T) {
	s := NewGuaranteedThroughputProbabilisticSampler(0, 0, log.Default())

	// maxBalance is floored at 1.0 (TokenBucket invariant), so the very
	// first call still gets one burst credit from the lower bound even
	// at a configured rate of 0.
	first := s.IsSampled(TraceID{Low: 1}, "op")
	if !first.Sampled {
		t.Fatalf("expected the initial burst credit to sample once")
	}

	second := s.IsSampled(TraceID{Low: 2}, "op")
	if second.Sampled {
		t.Fatalf("expected not sampled once the burst credit and probabilistic rate are both exhausted")
	}
}
