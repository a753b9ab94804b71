package jaegertrace

import (
	"sync"
	"time"
)

// TokenBucket is a continuous-refill rate limiter: credits accrue at
// creditsPerSecond between withdrawals, capped at maxBalance, and
// withdraw consumes one credit per admitted request.
type TokenBucket struct {
	mu               sync.Mutex
	creditsPerSecond float64
	maxBalance       float64
	balance          float64
	lastTick         time.Time
}

func NewTokenBucket(creditsPerSecond float64) *TokenBucket {
	return newTokenBucket(creditsPerSecond, true)
}

// newTokenBucket allows starting the bucket empty; GuaranteedThroughputProbabilisticSampler.Update
// uses this so a replaced lower-bound bucket converges through the
// refill invariant rather than starting pre-credited.
func newTokenBucket(creditsPerSecond float64, startFull bool) *TokenBucket {
	maxBalance := creditsPerSecond
	if maxBalance < 1.0 {
		maxBalance = 1.0
	}
	balance := 0.0
	if startFull {
		balance = maxBalance
	}
	return &TokenBucket{
		creditsPerSecond: creditsPerSecond,
		maxBalance:       maxBalance,
		balance:          balance,
		lastTick:         time.Now(),
	}
}

// Withdraw refills the bucket for elapsed time, then tries to take a
// single credit. It reports whether the credit was available.
func (b *TokenBucket) Withdraw() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastTick).Seconds()
	b.lastTick = now

	b.balance += elapsed * b.creditsPerSecond
	if b.balance > b.maxBalance {
		b.balance = b.maxBalance
	}

	if b.balance < 1.0 {
		return false
	}
	b.balance--
	return true
}

func (b *TokenBucket) CreditsPerSecond() float64 {
	return b.creditsPerSecond
}
