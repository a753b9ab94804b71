package jaegertrace

import (
	"sync"

	"github.com/theplant/jaegertrace/log"
)

// GuaranteedThroughputProbabilisticSampler samples an operation at a
// probabilistic rate, but guarantees at least lowerBound traces per
// second still get sampled even when the probabilistic sampler alone
// would starve that operation.
type GuaranteedThroughputProbabilisticSampler struct {
	mu            sync.Mutex
	probabilistic *ProbabilisticSampler
	lowerBound    *TokenBucket
	logger        log.Logger
}

func NewGuaranteedThroughputProbabilisticSampler(lowerBound, rate float64, logger log.Logger) *GuaranteedThroughputProbabilisticSampler {
	if logger.Levels == nil {
		logger = log.Default()
	}
	return &GuaranteedThroughputProbabilisticSampler{
		probabilistic: NewProbabilisticSampler(rate, logger),
		lowerBound:    NewTokenBucket(lowerBound),
		logger:        logger,
	}
}

func (s *GuaranteedThroughputProbabilisticSampler) IsSampled(id TraceID, operation string) SamplingStatus {
	s.mu.Lock()
	probabilistic := s.probabilistic
	lowerBound := s.lowerBound
	s.mu.Unlock()

	status := probabilistic.IsSampled(id, operation)
	if status.Sampled {
		lowerBound.Withdraw()
		return status
	}

	if lowerBound.Withdraw() {
		return SamplingStatus{
			Sampled: true,
			Tags:    samplerTags(SamplerTypeLowerBound, probabilistic.Rate()),
		}
	}

	return status
}

// Update replaces the inner probabilistic sampler and/or token bucket
// when their configured values change. Resets the token bucket's
// balance to zero; convergence to newLowerBound follows from the
// bucket's refill invariant.
func (s *GuaranteedThroughputProbabilisticSampler) Update(newLowerBound, newRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newRate != s.probabilistic.Rate() {
		s.probabilistic = NewProbabilisticSampler(newRate, s.logger)
	}
	if newLowerBound != s.lowerBound.CreditsPerSecond() {
		s.lowerBound = newTokenBucket(newLowerBound, false)
	}
}

func (s *GuaranteedThroughputProbabilisticSampler) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probabilistic.Rate()
}

func (s *GuaranteedThroughputProbabilisticSampler) LowerBound() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lowerBound.CreditsPerSecond()
}

func (s *GuaranteedThroughputProbabilisticSampler) Close() {}
