package expand

import "github.com/mkarczewski/keysheet"

// Breaker halts a worker after a run of consecutive failures. Each worker
// exclusively owns its breaker, so no synchronization is needed. A trip is
// permanent for the run; there is no automatic reset.
type Breaker struct {
	threshold   int
	consecutive int
}

// NewBreaker creates a Breaker with the given consecutive-failure threshold.
// A threshold below 1 falls back to the default.
func NewBreaker(threshold int) *Breaker {
	if threshold < 1 {
		threshold = keysheet.DefaultFailureThreshold
	}
	return &Breaker{threshold: threshold}
}

// Fail records one failure and reports whether the breaker has tripped.
func (b *Breaker) Fail() bool {
	b.consecutive++
	return b.consecutive >= b.threshold
}

// Reset clears the consecutive-failure count after a successful query.
func (b *Breaker) Reset() {
	b.consecutive = 0
}

// Tripped reports whether the failure threshold has been reached.
func (b *Breaker) Tripped() bool {
	return b.consecutive >= b.threshold
}
