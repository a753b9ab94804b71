package jaegertrace

import (
	"sync"

	"github.com/theplant/jaegertrace/log"
)

// PerOperationSampler (the "adaptive" sampler) keeps one
// GuaranteedThroughputProbabilisticSampler per operation name, up to
// maxOperations; operations beyond that cap fall back to a plain
// probabilistic default sampler with no lower-bound guarantee.
type PerOperationSampler struct {
	mu                sync.RWMutex
	samplers          map[string]*GuaranteedThroughputProbabilisticSampler
	defaultSampler    *ProbabilisticSampler
	defaultLowerBound float64
	maxOperations     int
	logger            log.Logger
}

func NewPerOperationSampler(strategies OperationSamplingStrategies, maxOperations int, logger log.Logger) *PerOperationSampler {
	if logger.Levels == nil {
		logger = log.Default()
	}
	s := &PerOperationSampler{
		samplers:          make(map[string]*GuaranteedThroughputProbabilisticSampler),
		defaultSampler:    NewProbabilisticSampler(strategies.DefaultSamplingProbability, logger),
		defaultLowerBound: strategies.DefaultLowerBoundTracesPerSecond,
		maxOperations:     maxOperations,
		logger:            logger,
	}
	for _, op := range strategies.PerOperationStrategies {
		s.samplers[op.Operation] = NewGuaranteedThroughputProbabilisticSampler(
			strategies.DefaultLowerBoundTracesPerSecond,
			op.ProbabilisticSampling.SamplingRate,
			logger,
		)
	}
	return s
}

func (s *PerOperationSampler) IsSampled(id TraceID, operation string) SamplingStatus {
	s.mu.RLock()
	sampler, ok := s.samplers[operation]
	s.mu.RUnlock()
	if ok {
		return sampler.IsSampled(id, operation)
	}

	s.mu.Lock()
	sampler, ok = s.samplers[operation]
	if !ok {
		if len(s.samplers) >= s.maxOperations {
			defaultSampler := s.defaultSampler
			s.mu.Unlock()
			return defaultSampler.IsSampled(id, operation)
		}
		sampler = NewGuaranteedThroughputProbabilisticSampler(s.defaultLowerBound, s.defaultSampler.Rate(), s.logger)
		s.samplers[operation] = sampler
	}
	s.mu.Unlock()

	return sampler.IsSampled(id, operation)
}

// Update replaces the strategies message under the full write lock:
// existing operations are updated in place, new ones created
// (respecting maxOperations), and operations no longer present are
// removed.
func (s *PerOperationSampler) Update(strategies OperationSamplingStrategies) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultSampler = NewProbabilisticSampler(strategies.DefaultSamplingProbability, s.logger)
	s.defaultLowerBound = strategies.DefaultLowerBoundTracesPerSecond

	seen := make(map[string]bool, len(strategies.PerOperationStrategies))
	for _, op := range strategies.PerOperationStrategies {
		seen[op.Operation] = true
		if existing, ok := s.samplers[op.Operation]; ok {
			existing.Update(strategies.DefaultLowerBoundTracesPerSecond, op.ProbabilisticSampling.SamplingRate)
			continue
		}
		if len(s.samplers) >= s.maxOperations {
			continue
		}
		s.samplers[op.Operation] = NewGuaranteedThroughputProbabilisticSampler(
			strategies.DefaultLowerBoundTracesPerSecond,
			op.ProbabilisticSampling.SamplingRate,
			s.logger,
		)
	}

	for op := range s.samplers {
		if !seen[op] {
			delete(s.samplers, op)
		}
	}
}

func (s *PerOperationSampler) Close() {}
