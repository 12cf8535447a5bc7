// Package slog provides logging decorators for keysheet services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarczewski/keysheet"
)

// Ensure LoggingSource implements keysheet.Source.
var _ keysheet.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with per-query logging.
type LoggingSource struct {
	next   keysheet.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next keysheet.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Engine delegates to the wrapped source.
func (s *LoggingSource) Engine() keysheet.Engine {
	return s.next.Engine()
}

// Suggest delegates to the wrapped source and logs the query.
func (s *LoggingSource) Suggest(ctx context.Context, keyword keysheet.Keyword) (suggestions []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("suggest",
			"engine", s.next.Engine(),
			"keyword", keyword,
			"count", len(suggestions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Suggest(ctx, keyword)
}
