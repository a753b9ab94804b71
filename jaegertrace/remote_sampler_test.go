package jaegertrace

import (
	"sync"
	"testing"
	"time"

	"github.com/theplant/jaegertrace/log"
	"github.com/theplant/jaegertrace/monitoring"
)

type fakeFetcher struct {
	mu       sync.Mutex
	strategy *SamplingStrategyResponse
	err      error
	calls    int
}

func (f *fakeFetcher) GetSamplingStrategy(service string) (*SamplingStrategyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.strategy, f.err
}

func (f *fakeFetcher) set(strategy *SamplingStrategyResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategy = strategy
	f.err = err
}

func waitForCondition(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestRemoteSamplerSwapsOnProbabilisticStrategy(t *testing.T) {
	fetcher := &fakeFetcher{}
	metrics := NewMetrics(monitoring.NewLogMonitor(log.Default()))

	s := NewRemoteSampler("svc", fetcher, 0, log.Default(), metrics, WithPollInterval(time.Millisecond))
	defer s.Close()

	fetcher.set(&SamplingStrategyResponse{
		StrategyType:          StrategyTypeProbabilistic,
		ProbabilisticSampling: &ProbabilisticSamplingStrategy{SamplingRate: 1.0},
	}, nil)

	waitForCondition(t, time.Second, func() bool {
		return s.IsSampled(TraceID{Low: 1}, "op").Sampled
	})
}

func TestRemoteSamplerIgnoresPollErrorsAndKeepsLastGood(t *testing.T) {
	fetcher := &fakeFetcher{}
	metrics := NewMetrics(monitoring.NewLogMonitor(log.Default()))

	s := NewRemoteSampler("svc", fetcher, 1.0, log.Default(), metrics, WithPollInterval(time.Millisecond))
	defer s.Close()

	fetcher.set(nil, errUnavailable)

	time.Sleep(20 * time.Millisecond)

	if !s.IsSampled(TraceID{Low: 1}, "op").Sampled {
		t.Fatalf("expected the initial probabilistic(1.0) sampler to still be in effect after poll errors")
	}
}

func TestRemoteSamplerCloseIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := NewRemoteSampler("svc", fetcher, 0, log.Default(), nil, WithPollInterval(time.Hour))
	s.Close()
	s.Close()
}

var errUnavailable = fakeErr("manager unavailable")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
