package expand

import (
	"context"
	"time"

	"github.com/mkarczewski/keysheet"
	"golang.org/x/time/rate"
)

var _ keysheet.Pacer = (*Pacer)(nil)

// Pacer enforces a fixed minimum delay between a single worker's successive
// queries. It is a pace limiter, not a token bucket: burst is 1, so N workers
// collectively issue at most N requests within any delay window.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer creates a Pacer with the given minimum inter-request delay.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the delay since the previous request has elapsed.
// Returns an error only if the context is canceled first.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
