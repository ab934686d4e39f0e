package backoff

import (
	"math/rand"
	"sync"
	"time"
)

// JitterType selects how NewJitterFunc randomizes an interval.
type JitterType int

const (
	// NoJitter returns the interval unchanged.
	NoJitter JitterType = iota
	// FullJitter returns a uniform random duration in [0, interval].
	FullJitter
	// Jitter returns a uniform random duration in [0.5x, 1.5x] interval.
	Jitter
)

// NewJitterFunc returns a function applying the given jitter strategy to
// an interval. The returned function is safe for concurrent use.
func NewJitterFunc(jitterType JitterType) func(time.Duration) time.Duration {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return func(interval time.Duration) time.Duration {
		if interval <= 0 {
			return 0
		}

		switch jitterType {
		case FullJitter:
			mu.Lock()
			defer mu.Unlock()
			return time.Duration(rng.Int63n(int64(interval) + 1))
		case Jitter:
			mu.Lock()
			f := rng.Float64()
			mu.Unlock()
			half := float64(interval) / 2
			return time.Duration(half + f*float64(interval))
		default:
			return interval
		}
	}
}

// WithJitter wraps policy so that ComputeNextInterval's result is passed
// through the given jitter strategy before being returned.
func WithJitter(policy RetryPolicy, jitterType JitterType) RetryPolicy {
	return &jitteredPolicy{
		policy: policy,
		jitter: NewJitterFunc(jitterType),
	}
}

type jitteredPolicy struct {
	policy RetryPolicy
	jitter func(time.Duration) time.Duration
}

func (p *jitteredPolicy) ComputeNextInterval(retryCount int, elapsedTime time.Duration, err error) (time.Duration, error) {
	interval, computeErr := p.policy.ComputeNextInterval(retryCount, elapsedTime, err)
	if computeErr != nil {
		return 0, computeErr
	}
	return p.jitter(interval), nil
}
