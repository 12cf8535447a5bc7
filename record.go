package keysheet

import (
	"context"
	"time"
)

// KeywordRecord is a persisted discovery.
type KeywordRecord struct {
	ID           string
	Keyword      Keyword
	Engine       Engine
	DiscoveredAt time.Time
}

// KeywordFilter selects records for KeywordService queries.
type KeywordFilter struct {
	Engine *Engine

	// Limit and Offset paginate results. Zero means no limit/offset.
	Limit  int
	Offset int
}

// KeywordService is a durable keyword store. Record follows the Sink
// contract; repeated inserts of the same keyword are tolerated and keep the
// earliest discovery.
type KeywordService interface {
	Sink

	// FindKeywords returns records matching the filter, newest first,
	// along with the total match count before pagination.
	FindKeywords(ctx context.Context, filter KeywordFilter) ([]*KeywordRecord, int, error)

	// CountKeywords returns per-engine record counts.
	CountKeywords(ctx context.Context) (map[Engine]int, error)
}
