package mock

import (
	"context"
	"sync"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Sink = (*Sink)(nil)

// Sink is a mock implementation of keysheet.Sink.
type Sink struct {
	RecordFn func(ctx context.Context, d keysheet.Discovery) error
}

func (s *Sink) Record(ctx context.Context, d keysheet.Discovery) error {
	return s.RecordFn(ctx, d)
}

var _ keysheet.SeedProvider = (*SeedProvider)(nil)

// SeedProvider is a mock implementation of keysheet.SeedProvider.
type SeedProvider struct {
	SeedsFn func(ctx context.Context) ([]string, error)
}

func (p *SeedProvider) Seeds(ctx context.Context) ([]string, error) {
	return p.SeedsFn(ctx)
}

var _ keysheet.KeywordService = (*KeywordService)(nil)

// KeywordService is a mock implementation of keysheet.KeywordService.
type KeywordService struct {
	RecordFn        func(ctx context.Context, d keysheet.Discovery) error
	FindKeywordsFn  func(ctx context.Context, filter keysheet.KeywordFilter) ([]*keysheet.KeywordRecord, int, error)
	CountKeywordsFn func(ctx context.Context) (map[keysheet.Engine]int, error)
}

func (s *KeywordService) Record(ctx context.Context, d keysheet.Discovery) error {
	return s.RecordFn(ctx, d)
}

func (s *KeywordService) FindKeywords(ctx context.Context, filter keysheet.KeywordFilter) ([]*keysheet.KeywordRecord, int, error) {
	return s.FindKeywordsFn(ctx, filter)
}

func (s *KeywordService) CountKeywords(ctx context.Context) (map[keysheet.Engine]int, error) {
	return s.CountKeywordsFn(ctx)
}

var _ keysheet.Sink = (*RecordingSink)(nil)

// RecordingSink collects discoveries in memory for assertions. It is safe
// for concurrent use, as the engine requires of any sink.
type RecordingSink struct {
	mu          sync.Mutex
	discoveries []keysheet.Discovery
}

func (s *RecordingSink) Record(_ context.Context, d keysheet.Discovery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discoveries = append(s.discoveries, d)
	return nil
}

// Discoveries returns a copy of everything recorded so far.
func (s *RecordingSink) Discoveries() []keysheet.Discovery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]keysheet.Discovery, len(s.discoveries))
	copy(out, s.discoveries)
	return out
}

// Keywords returns the recorded keyword texts, in record order.
func (s *RecordingSink) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.discoveries))
	for _, d := range s.discoveries {
		out = append(out, d.Keyword.String())
	}
	return out
}
