package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarczewski/keysheet"
)

// Ensure LoggingSink implements keysheet.Sink.
var _ keysheet.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with per-record logging.
type LoggingSink struct {
	next   keysheet.Sink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next keysheet.Sink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Record delegates to the wrapped sink and logs the write.
func (s *LoggingSink) Record(ctx context.Context, d keysheet.Discovery) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("record",
			"keyword", d.Keyword,
			"engine", d.Engine,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Record(ctx, d)
}
