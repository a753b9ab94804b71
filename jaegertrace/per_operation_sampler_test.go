package jaegertrace

import (
	"testing"

	"github.com/theplant/jaegertrace/log"
)

func TestPerOperationSamplerS5(t *testing.T) {
	strategies := OperationSamplingStrategies{
		DefaultSamplingProbability:       0.5,
		DefaultLowerBoundTracesPerSecond: 1.0,
		PerOperationStrategies: []OperationSamplingStrategy{
			{Operation: "op", ProbabilisticSampling: ProbabilisticSamplingStrategy{SamplingRate: 0.5}},
		},
	}
	s := NewPerOperationSampler(strategies, 10, log.Default())

	lowerBoundHit := s.IsSampled(TraceID{Low: (uint64(1) << 63) + 10}, "op")
	if !lowerBoundHit.Sampled {
		t.Fatalf("expected lower-bound sample for not-probabilistically-sampled id")
	}
	// sampler.param must be the probabilistic sampler's rate (0.5), not
	// the lower bound's credits/sec.
	assertSamplerTags(t, lowerBoundHit.Tags, SamplerTypeLowerBound, 0.5)

	probabilisticHit := s.IsSampled(TraceID{Low: (uint64(1) << 63) - 20}, "op")
	if !probabilisticHit.Sampled {
		t.Fatalf("expected probabilistic sample")
	}
	assertSamplerTags(t, probabilisticHit.Tags, SamplerTypeProbabilistic, 0.5)

	drained := s.IsSampled(TraceID{Low: (uint64(1) << 63) + 10}, "op")
	if drained.Sampled {
		t.Fatalf("expected bucket to be drained by the first lower-bound sample")
	}

	newOp := s.IsSampled(TraceID{Low: 100}, "firstTimeOp")
	if !newOp.Sampled {
		t.Fatalf("expected a freshly-created operation entry to sample via its probabilistic default")
	}
	assertSamplerTags(t, newOp.Tags, SamplerTypeProbabilistic, 0.5)
}

func TestPerOperationSamplerRespectsMaxOperations(t *testing.T) {
	strategies := OperationSamplingStrategies{DefaultSamplingProbability: 1, DefaultLowerBoundTracesPerSecond: 1}
	s := NewPerOperationSampler(strategies, 2, log.Default())

	s.IsSampled(TraceID{Low: 1}, "a")
	s.IsSampled(TraceID{Low: 1}, "b")
	s.IsSampled(TraceID{Low: 1}, "c")

	s.mu.RLock()
	n := len(s.samplers)
	s.mu.RUnlock()

	if n > 2 {
		t.Fatalf("len(samplers) = %d, want at most maxOperations=2", n)
	}
}

func TestPerOperationSamplerUpdateRemovesStaleOperations(t *testing.T) {
	strategies := OperationSamplingStrategies{
		DefaultSamplingProbability: 0.5,
		PerOperationStrategies: []OperationSamplingStrategy{
			{Operation: "keep", ProbabilisticSampling: ProbabilisticSamplingStrategy{SamplingRate: 0.5}},
			{Operation: "drop", ProbabilisticSampling: ProbabilisticSamplingStrategy{SamplingRate: 0.5}},
		},
	}
	s := NewPerOperationSampler(strategies, 10, log.Default())

	s.Update(OperationSamplingStrategies{
		DefaultSamplingProbability: 0.5,
		PerOperationStrategies: []OperationSamplingStrategy{
			{Operation: "keep", ProbabilisticSampling: ProbabilisticSamplingStrategy{SamplingRate: 0.9}},
		},
	})

	s.mu.RLock()
	_, hasKeep := s.samplers["keep"]
	_, hasDrop := s.samplers["drop"]
	s.mu.RUnlock()

	if !hasKeep {
		t.Fatalf("expected 'keep' operation to remain after Update")
	}
	if hasDrop {
		t.Fatalf("expected 'drop' operation to be removed after Update")
	}
}
