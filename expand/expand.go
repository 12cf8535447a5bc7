// Package expand provides the concurrent frontier-expansion engine.
// It coordinates a shared keyword queue and dedup set across one worker
// per upstream suggestion source, with per-worker pacing and failure
// containment, and drives graceful shutdown.
package expand

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarczewski/keysheet"
	"golang.org/x/sync/errgroup"
)

// Binding fixes a worker to one suggestion source for the lifetime of a run,
// together with the breaker and pacer that worker exclusively owns.
type Binding struct {
	Source  keysheet.Source
	Pacer   keysheet.Pacer
	Breaker *Breaker
}

// Expander owns the worker pool, seeds the frontier, and waits for all
// workers to reach a terminal state or for external cancellation.
type Expander struct {
	Queue    keysheet.Queue
	Seen     keysheet.Set
	Sink     keysheet.Sink
	Bindings []Binding

	// MaxPerEngine caps keywords processed per worker. Zero means the
	// default cap.
	MaxPerEngine int

	// QueryTimeout bounds each upstream query. In-flight queries are never
	// forcibly aborted on cancellation; this timeout is their only bound.
	QueryTimeout time.Duration

	// StarveTimeout bounds each worker's wait for the next keyword.
	StarveTimeout time.Duration

	// ShutdownGrace bounds how long Run waits for workers after the run
	// context is canceled before reporting them abandoned.
	ShutdownGrace time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of an expansion run.
type Result struct {
	// Unique is the total number of keywords admitted to the dedup set,
	// seeds included.
	Unique int

	// Sources holds per-worker tallies in binding order.
	Sources []Stats

	// Abandoned counts workers still running when the shutdown grace
	// period expired. Their in-flight query completes on its own timeout.
	Abandoned int
}

// Run seeds the frontier and drives the worker pool to completion.
// Invalid seeds are skipped with a warning; duplicate seeds are admitted
// once. Run returns EINVALID when no seed survives validation.
func (e *Expander) Run(ctx context.Context, seeds []string) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	admitted := 0
	for _, s := range seeds {
		k := keysheet.NormalizeKeyword(s)
		if err := k.Validate(); err != nil {
			logger.Warn("skipping seed", "seed", s, "err", keysheet.ErrorMessage(err))
			continue
		}
		if !e.Seen.Admit(k) {
			continue
		}
		e.Queue.Push(k)
		admitted++
		if err := e.Sink.Record(ctx, keysheet.Discovery{Keyword: k, Engine: keysheet.EngineSeed}); err != nil {
			logger.Error("sink write failed", "keyword", k, "err", err)
		}
	}
	if admitted == 0 {
		return nil, keysheet.Errorf(keysheet.EINVALID, "no valid seed keywords")
	}
	logger.Info("frontier seeded", "seeds", admitted, "workers", len(e.Bindings))

	workers := make([]*Worker, len(e.Bindings))
	var g errgroup.Group
	for i, b := range e.Bindings {
		w := NewWorker(WorkerOptions{
			Source:        b.Source,
			Queue:         e.Queue,
			Seen:          e.Seen,
			Sink:          e.Sink,
			Pacer:         b.Pacer,
			Breaker:       b.Breaker,
			MaxKeywords:   e.MaxPerEngine,
			QueryTimeout:  e.QueryTimeout,
			StarveTimeout: e.StarveTimeout,
			Logger:        logger,
		})
		workers[i] = w
		g.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	abandoned := 0
	select {
	case <-done:
	case <-ctx.Done():
		grace := e.ShutdownGrace
		if grace <= 0 {
			grace = keysheet.DefaultShutdownGrace
		}
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-done:
		case <-timer.C:
			for _, w := range workers {
				if w.Stats().State == StateRunning {
					abandoned++
				}
			}
			logger.Warn("shutdown grace expired", "abandoned", abandoned)
		}
	}

	result := &Result{
		Unique:    e.Seen.Len(),
		Abandoned: abandoned,
	}
	for _, w := range workers {
		result.Sources = append(result.Sources, w.Stats())
	}
	logger.Info("run complete", "unique", result.Unique)
	return result, nil
}
