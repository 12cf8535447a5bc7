package expand

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mkarczewski/keysheet"
)

// State describes where a worker is in its lifecycle.
type State string

// Worker states. Starved and Halted are terminal.
const (
	StateRunning State = "running"
	StateStarved State = "starved"
	StateHalted  State = "halted"
)

// Halt reasons reported in Stats.Reason.
const (
	ReasonCanceled = "canceled"
	ReasonCap      = "cap reached"
	ReasonBreaker  = "breaker tripped"
)

// Stats is a snapshot of one worker's tallies.
type Stats struct {
	Engine    keysheet.Engine
	Processed int
	Failures  int
	State     State
	Reason    string
}

// WorkerOptions configures a Worker. Queue, Seen and Sink are shared across
// all workers; everything else is exclusively owned.
type WorkerOptions struct {
	Source  keysheet.Source
	Queue   keysheet.Queue
	Seen    keysheet.Set
	Sink    keysheet.Sink
	Pacer   keysheet.Pacer
	Breaker *Breaker

	MaxKeywords   int
	QueryTimeout  time.Duration
	StarveTimeout time.Duration
	Logger        *slog.Logger
}

// Worker binds one suggestion source to the shared frontier. It pops
// keywords, paces itself, queries its source, and feeds newly admitted
// suggestions back into the queue and out to the sink.
type Worker struct {
	source  keysheet.Source
	queue   keysheet.Queue
	seen    keysheet.Set
	sink    keysheet.Sink
	pacer   keysheet.Pacer
	breaker *Breaker

	maxKeywords   int
	queryTimeout  time.Duration
	starveTimeout time.Duration
	logger        *slog.Logger

	// mu guards the tallies so the coordinator can snapshot them while the
	// worker may still be running out a shutdown grace period.
	mu        sync.Mutex
	processed int
	failures  int
	state     State
	reason    string
}

// NewWorker creates a Worker, applying defaults for unset tuning values.
func NewWorker(opts WorkerOptions) *Worker {
	if opts.MaxKeywords < 1 {
		opts.MaxKeywords = keysheet.DefaultMaxPerEngine
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = keysheet.DefaultQueryTimeout
	}
	if opts.StarveTimeout <= 0 {
		opts.StarveTimeout = keysheet.DefaultStarveTimeout
	}
	if opts.Pacer == nil {
		opts.Pacer = NewPacer(0)
	}
	if opts.Breaker == nil {
		opts.Breaker = NewBreaker(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		source:        opts.Source,
		queue:         opts.Queue,
		seen:          opts.Seen,
		sink:          opts.Sink,
		pacer:         opts.Pacer,
		breaker:       opts.Breaker,
		maxKeywords:   opts.MaxKeywords,
		queryTimeout:  opts.QueryTimeout,
		starveTimeout: opts.StarveTimeout,
		logger:        opts.Logger.With("engine", opts.Source.Engine()),
	}
}

// Stats returns a snapshot of the worker's tallies.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Engine:    w.source.Engine(),
		Processed: w.processed,
		Failures:  w.failures,
		State:     w.state,
		Reason:    w.reason,
	}
}

// Run executes the worker loop until a terminal state is reached. The stop
// signal is observed once per iteration at the loop top; a query already in
// flight completes naturally, bounded by its own timeout.
func (w *Worker) Run(ctx context.Context) Stats {
	w.setState(StateRunning, "")

	for {
		if ctx.Err() != nil {
			w.halt(ReasonCanceled)
			break
		}
		if w.Stats().Processed >= w.maxKeywords {
			w.halt(ReasonCap)
			break
		}

		keyword, ok := w.queue.Pop(ctx, w.starveTimeout)
		if !ok {
			if ctx.Err() != nil {
				w.halt(ReasonCanceled)
			} else {
				// Frontier exhausted from this worker's perspective.
				w.setState(StateStarved, "")
				w.logger.Info("frontier starved")
			}
			break
		}

		if err := w.pacer.Wait(ctx); err != nil {
			w.halt(ReasonCanceled)
			break
		}

		suggestions, err := w.query(ctx, keyword)
		w.bump(func() { w.processed++ })

		if err != nil || len(suggestions) == 0 {
			// Zero suggestions count against the breaker: a source that
			// degrades into always-empty responses must not run forever.
			w.bump(func() { w.failures++ })
			if err != nil {
				w.logger.Warn("query failed", "keyword", keyword, "err", err)
			} else {
				w.logger.Debug("no suggestions", "keyword", keyword)
			}
			if w.breaker.Fail() {
				w.halt(ReasonBreaker)
				break
			}
			continue
		}

		w.breaker.Reset()
		w.logger.Debug("suggestions received", "keyword", keyword, "count", len(suggestions))

		for _, s := range suggestions {
			candidate := keysheet.NormalizeKeyword(s)
			if err := candidate.Validate(); err != nil {
				w.logger.Warn("dropping suggestion", "suggestion", s, "err", keysheet.ErrorMessage(err))
				continue
			}
			if !w.seen.Admit(candidate) {
				continue
			}
			w.queue.Push(candidate)
			if err := w.sink.Record(ctx, keysheet.Discovery{
				Keyword: candidate,
				Engine:  w.source.Engine(),
			}); err != nil {
				// Never rolls back the admission.
				w.logger.Error("sink write failed", "keyword", candidate, "err", err)
			}
		}
	}

	return w.Stats()
}

// query issues a single upstream query bounded by the query timeout. The
// timeout context is detached from the run context so cancellation never
// aborts an in-flight query.
func (w *Worker) query(ctx context.Context, k keysheet.Keyword) ([]string, error) {
	qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.queryTimeout)
	defer cancel()
	return w.source.Suggest(qctx, k)
}

func (w *Worker) setState(s State, reason string) {
	w.mu.Lock()
	w.state = s
	w.reason = reason
	w.mu.Unlock()
}

func (w *Worker) halt(reason string) {
	w.setState(StateHalted, reason)
	w.logger.Info("worker halted", "reason", reason)
}

func (w *Worker) bump(f func()) {
	w.mu.Lock()
	f()
	w.mu.Unlock()
}
