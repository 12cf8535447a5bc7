package expand

import (
	"context"
	"sync"
	"time"

	"github.com/mkarczewski/keysheet"
)

// Compile-time interface verification.
var _ keysheet.Queue = (*Queue)(nil)

// Queue is the shared in-memory frontier: an unbounded FIFO of pending
// keywords. It is safe for concurrent use by multiple goroutines. Pushes from
// one producer are popped in order; no order is guaranteed across producers.
type Queue struct {
	mu    sync.Mutex
	items []keysheet.Keyword

	// wake carries at most one token so a blocked Pop wakes promptly after
	// a Push instead of sleeping out its full timeout.
	wake chan struct{}
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push enqueues a keyword. It never blocks; callers must have already passed
// the dedup check.
func (q *Queue) Push(k keysheet.Keyword) {
	q.mu.Lock()
	q.items = append(q.items, k)
	q.mu.Unlock()
	q.signal()
}

// Pop removes and returns the oldest keyword. It blocks the calling
// goroutine only, for at most wait, and reports ok=false when nothing
// arrived in time or the context was canceled.
func (q *Queue) Pop(ctx context.Context, wait time.Duration) (keysheet.Keyword, bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			k := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			if remaining > 0 {
				// Pass the wakeup on: another waiter may be parked
				// on a single token.
				q.signal()
			}
			return k, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-timer.C:
			return "", false
		case <-ctx.Done():
			return "", false
		}
	}
}

// Len returns the number of pending keywords.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
