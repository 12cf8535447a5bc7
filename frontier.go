package keysheet

import (
	"context"
	"time"
)

// Queue is the shared frontier of pending keywords.
//
// Push never blocks; the queue is unbounded and callers must have already
// passed the dedup check. Pop blocks only the calling worker, for at most
// wait, and reports ok=false when nothing arrived in time or the context was
// canceled. FIFO order holds per producer; no order is guaranteed across
// producers.
type Queue interface {
	Push(k Keyword)
	Pop(ctx context.Context, wait time.Duration) (Keyword, bool)
	Len() int
}

// Set is the run-lifetime dedup set. Admit atomically tests membership and
// inserts when absent; exactly one concurrent admitter of the same keyword
// receives true. Every insertion path into the frontier or a sink must route
// through Admit.
type Set interface {
	Admit(k Keyword) bool
	Len() int
}

// Pacer enforces a minimum delay between a single worker's successive
// queries. Wait returns early with an error only when the context is
// canceled.
type Pacer interface {
	Wait(ctx context.Context) error
}

// ProxyRotator hands out upstream proxy endpoints round-robin.
// Next reports ok=false when no proxies are configured.
type ProxyRotator interface {
	Next() (endpoint string, ok bool)
}
