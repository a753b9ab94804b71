package jaegertrace

// RateLimitingSampler samples at most creditsPerSecond traces per
// second, using a TokenBucket so a burst at startup can still admit
// one trace immediately.
type RateLimitingSampler struct {
	bucket *TokenBucket
}

func NewRateLimitingSampler(creditsPerSecond float64) *RateLimitingSampler {
	return &RateLimitingSampler{bucket: NewTokenBucket(creditsPerSecond)}
}

func (s *RateLimitingSampler) IsSampled(id TraceID, operation string) SamplingStatus {
	return SamplingStatus{
		Sampled: s.bucket.Withdraw(),
		Tags:    samplerTags(SamplerTypeRateLimiting, s.bucket.CreditsPerSecond()),
	}
}

func (s *RateLimitingSampler) Close() {}
