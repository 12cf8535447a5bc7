package keysheet

import "context"

// Discovery is a single keyword attributed to the engine that surfaced it.
type Discovery struct {
	Keyword Keyword
	Engine  Engine
}

// Sink receives newly admitted keywords. Implementations must tolerate
// concurrent, unordered writes from multiple workers and must not block
// beyond a bounded I/O timeout. A sink failure never rolls back the dedup
// admission that preceded it.
type Sink interface {
	Record(ctx context.Context, d Discovery) error
}

// SeedProvider supplies the initial keywords that seed the frontier.
// Seeds are validated the same way as any discovered keyword.
type SeedProvider interface {
	Seeds(ctx context.Context) ([]string, error)
}

var _ Sink = (MultiSink)(nil)

// MultiSink fans a discovery out to every member sink. All sinks are
// attempted even when one fails; the first error is returned.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(ctx context.Context, d Discovery) error {
	var first error
	for _, sink := range m {
		if err := sink.Record(ctx, d); err != nil && first == nil {
			first = err
		}
	}
	return first
}
