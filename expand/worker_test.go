package expand_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/expand"
	"github.com/mkarczewski/keysheet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWorkerFixture builds a worker over real queue/set plus a mock source,
// with fast timeouts suitable for tests.
func newWorkerFixture(source keysheet.Source, opts expand.WorkerOptions) (*expand.Worker, *expand.Queue, *expand.Set, *mock.RecordingSink) {
	queue := expand.NewQueue()
	seen := expand.NewSet()
	sink := &mock.RecordingSink{}

	opts.Source = source
	opts.Queue = queue
	opts.Seen = seen
	opts.Sink = sink
	if opts.StarveTimeout == 0 {
		opts.StarveTimeout = 50 * time.Millisecond
	}
	return expand.NewWorker(opts), queue, seen, sink
}

func TestWorker_starves_on_empty_frontier(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		SuggestFn: func(context.Context, keysheet.Keyword) ([]string, error) {
			return nil, nil
		},
	}
	w, _, _, _ := newWorkerFixture(source, expand.WorkerOptions{})

	stats := w.Run(context.Background())

	assert.Equal(t, expand.StateStarved, stats.State)
	assert.Zero(t, stats.Processed)
}

func TestWorker_halts_after_exactly_threshold_failures(t *testing.T) {
	t.Parallel()

	calls := 0
	source := &mock.Source{
		SuggestFn: func(context.Context, keysheet.Keyword) ([]string, error) {
			calls++
			return nil, keysheet.Errorf(keysheet.EUNAVAILABLE, "connection refused")
		},
	}
	w, queue, seen, _ := newWorkerFixture(source, expand.WorkerOptions{
		Breaker: expand.NewBreaker(3),
	})
	for _, k := range []keysheet.Keyword{"a", "b", "c", "d", "e"} {
		seen.Admit(k)
		queue.Push(k)
	}

	stats := w.Run(context.Background())

	assert.Equal(t, expand.StateHalted, stats.State)
	assert.Equal(t, expand.ReasonBreaker, stats.Reason)
	assert.Equal(t, 3, calls, "breaker trips after exactly threshold failures, never more")
	assert.Equal(t, 3, stats.Failures)
}

func TestWorker_zero_suggestions_count_against_breaker(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		SuggestFn: func(context.Context, keysheet.Keyword) ([]string, error) {
			return []string{}, nil
		},
	}
	w, queue, seen, _ := newWorkerFixture(source, expand.WorkerOptions{
		Breaker: expand.NewBreaker(2),
	})
	for _, k := range []keysheet.Keyword{"a", "b", "c"} {
		seen.Admit(k)
		queue.Push(k)
	}

	stats := w.Run(context.Background())

	assert.Equal(t, expand.StateHalted, stats.State)
	assert.Equal(t, expand.ReasonBreaker, stats.Reason)
	assert.Equal(t, 2, stats.Processed)
}

func TestWorker_success_resets_breaker(t *testing.T) {
	t.Parallel()

	fail := true
	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			fail = !fail
			if fail {
				return nil, keysheet.Errorf(keysheet.EUNAVAILABLE, "flaky")
			}
			return []string{string(k) + " extra"}, nil
		},
	}
	w, queue, seen, _ := newWorkerFixture(source, expand.WorkerOptions{
		Breaker:     expand.NewBreaker(2),
		MaxKeywords: 6,
	})
	seen.Admit("start")
	queue.Push("start")

	stats := w.Run(context.Background())

	// Alternating success/failure never reaches two consecutive failures.
	assert.NotEqual(t, expand.ReasonBreaker, stats.Reason)
}

func TestWorker_respects_per_source_cap(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			// Always two fresh suggestions: the frontier never drains.
			return []string{string(k) + " x", string(k) + " y"}, nil
		},
	}
	w, queue, seen, _ := newWorkerFixture(source, expand.WorkerOptions{
		MaxKeywords: 5,
	})
	seen.Admit("seed")
	queue.Push("seed")

	stats := w.Run(context.Background())

	assert.Equal(t, expand.StateHalted, stats.State)
	assert.Equal(t, expand.ReasonCap, stats.Reason)
	assert.Equal(t, 5, stats.Processed, "worker never processes more than its cap")
	assert.Positive(t, queue.Len(), "frontier was still non-empty")
}

func TestWorker_admits_each_suggestion_once(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			if k == "shoes" {
				return []string{"running shoes", "shoes"}, nil
			}
			return nil, nil
		},
	}
	w, queue, seen, sink := newWorkerFixture(source, expand.WorkerOptions{
		Breaker: expand.NewBreaker(5),
	})
	seen.Admit("shoes")
	queue.Push("shoes")

	stats := w.Run(context.Background())

	// "shoes" is already admitted as the seed, so only the genuinely new
	// phrase reaches the sink.
	assert.Equal(t, []string{"running shoes"}, sink.Keywords())
	assert.Equal(t, 2, stats.Processed)
}

func TestWorker_drops_invalid_suggestions(t *testing.T) {
	t.Parallel()

	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			if k == "seed" {
				return []string{"   ", "ok phrase"}, nil
			}
			return nil, nil
		},
	}
	w, queue, seen, sink := newWorkerFixture(source, expand.WorkerOptions{})
	seen.Admit("seed")
	queue.Push("seed")

	w.Run(context.Background())

	assert.Equal(t, []string{"ok phrase"}, sink.Keywords())
}

func TestWorker_sink_failure_does_not_roll_back_admission(t *testing.T) {
	t.Parallel()

	queue := expand.NewQueue()
	seen := expand.NewSet()
	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			if k == "seed" {
				return []string{"new phrase"}, nil
			}
			return nil, nil
		},
	}
	failing := &mock.Sink{
		RecordFn: func(context.Context, keysheet.Discovery) error {
			return keysheet.Errorf(keysheet.EUNAVAILABLE, "disk full")
		},
	}
	w := expand.NewWorker(expand.WorkerOptions{
		Source:        source,
		Queue:         queue,
		Seen:          seen,
		Sink:          failing,
		StarveTimeout: 50 * time.Millisecond,
	})
	seen.Admit("seed")
	queue.Push("seed")

	stats := w.Run(context.Background())

	assert.Equal(t, expand.StateStarved, stats.State, "sink failures are logged, not fatal")
	assert.False(t, seen.Admit("new phrase"), "admission survives the sink failure")
}

func TestWorker_halts_on_cancellation(t *testing.T) {
	t.Parallel()

	unblock := make(chan struct{})
	var once sync.Once
	source := &mock.Source{
		SuggestFn: func(_ context.Context, k keysheet.Keyword) ([]string, error) {
			once.Do(func() { close(unblock) })
			return []string{string(k) + " more"}, nil
		},
	}
	w, queue, seen, _ := newWorkerFixture(source, expand.WorkerOptions{
		StarveTimeout: 5 * time.Second,
	})
	seen.Admit("seed")
	queue.Push("seed")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-unblock
		cancel()
	}()

	start := time.Now()
	stats := w.Run(ctx)

	require.Equal(t, expand.StateHalted, stats.State)
	assert.Equal(t, expand.ReasonCanceled, stats.Reason)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation observed at the loop top")
}
