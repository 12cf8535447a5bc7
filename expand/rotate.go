package expand

import (
	"sync"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.ProxyRotator = (*Rotator)(nil)

// Rotator hands out proxy endpoints round-robin. One Rotator is shared by
// all workers, so the cursor is mutex-guarded.
type Rotator struct {
	mu        sync.Mutex
	endpoints []string
	cursor    int
}

// NewRotator creates a Rotator over the given endpoints. The list is fixed
// for the run; rotation order is configuration order.
func NewRotator(endpoints []string) *Rotator {
	return &Rotator{endpoints: endpoints}
}

// Next returns the next endpoint in rotation, or ok=false when no endpoints
// are configured.
func (r *Rotator) Next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.endpoints) == 0 {
		return "", false
	}
	ep := r.endpoints[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.endpoints)
	return ep, true
}
