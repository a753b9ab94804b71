package jaegertrace

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theplant/jaegertrace/log"
)

const defaultPollInterval = time.Minute

// StrategyFetcher fetches a sampling strategy for a service name from
// a remote manager. httpsampler.Client implements this.
type StrategyFetcher interface {
	GetSamplingStrategy(service string) (*SamplingStrategyResponse, error)
}

// RemoteSampler polls a remote manager on an interval and swaps its
// active inner sampler based on the strategy returned, without ever
// blocking a concurrent IsSampled call.
type RemoteSampler struct {
	inner atomic.Value // holds Sampler

	service       string
	fetcher       StrategyFetcher
	pollInterval  time.Duration
	maxOperations int

	logger  log.Logger
	metrics *Metrics

	closeOnce sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

type RemoteSamplerOption func(*RemoteSampler)

func WithPollInterval(d time.Duration) RemoteSamplerOption {
	return func(s *RemoteSampler) { s.pollInterval = d }
}

func WithMaxOperations(n int) RemoteSamplerOption {
	return func(s *RemoteSampler) { s.maxOperations = n }
}

// NewRemoteSampler seeds the inner sampler from initialRate (a plain
// probabilistic sampler) and starts a poller goroutine immediately.
func NewRemoteSampler(service string, fetcher StrategyFetcher, initialRate float64, logger log.Logger, metrics *Metrics, opts ...RemoteSamplerOption) *RemoteSampler {
	if logger.Levels == nil {
		logger = log.Default()
	}
	s := &RemoteSampler{
		service:       service,
		fetcher:       fetcher,
		pollInterval:  defaultPollInterval,
		maxOperations: 2000,
		logger:        logger,
		metrics:       metrics,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.inner.Store(Sampler(NewProbabilisticSampler(initialRate, logger)))

	s.wg.Add(1)
	go s.pollLoop()

	return s
}

func (s *RemoteSampler) IsSampled(id TraceID, operation string) SamplingStatus {
	sampler := s.inner.Load().(Sampler)
	return sampler.IsSampled(id, operation)
}

func (s *RemoteSampler) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}

func (s *RemoteSampler) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

func (s *RemoteSampler) poll() {
	strategy, err := s.fetcher.GetSamplingStrategy(s.service)
	if err == nil && strategy == nil {
		err = errors.New("empty sampling strategy response")
	}
	if err != nil {
		s.logger.Warn().Log(
			"msg", "failed to fetch sampling strategy",
			"service", s.service,
			"err", err,
		)
		if s.metrics != nil {
			s.metrics.SamplerQueryFailure(err)
		}
		return
	}

	s.applyStrategy(strategy)
}

func (s *RemoteSampler) applyStrategy(strategy *SamplingStrategyResponse) {
	switch strategy.StrategyType {
	case StrategyTypeProbabilistic:
		if strategy.ProbabilisticSampling == nil {
			return
		}
		s.inner.Store(Sampler(NewProbabilisticSampler(strategy.ProbabilisticSampling.SamplingRate, s.logger)))

	case StrategyTypeRateLimiting:
		if strategy.RateLimitingSampling == nil {
			return
		}
		s.inner.Store(Sampler(NewRateLimitingSampler(strategy.RateLimitingSampling.MaxTracesPerSecond)))

	case StrategyTypeOperation:
		if strategy.OperationSampling == nil {
			return
		}
		if existing, ok := s.inner.Load().(Sampler).(*PerOperationSampler); ok {
			existing.Update(*strategy.OperationSampling)
			return
		}
		s.inner.Store(Sampler(NewPerOperationSampler(*strategy.OperationSampling, s.maxOperations, s.logger)))

	default:
		s.logger.Warn().Log("msg", "unknown sampling strategy type", "service", s.service)
	}
}
