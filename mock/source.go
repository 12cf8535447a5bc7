package mock

import (
	"context"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Source = (*Source)(nil)

// Source is a mock implementation of keysheet.Source.
type Source struct {
	EngineFn  func() keysheet.Engine
	SuggestFn func(ctx context.Context, keyword keysheet.Keyword) ([]string, error)
}

func (s *Source) Engine() keysheet.Engine {
	if s.EngineFn == nil {
		return keysheet.EngineGoogle
	}
	return s.EngineFn()
}

func (s *Source) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	return s.SuggestFn(ctx, keyword)
}

var _ keysheet.IdentityRotator = (*IdentityRotator)(nil)

// IdentityRotator is a mock implementation of keysheet.IdentityRotator.
type IdentityRotator struct {
	RotateFn func(ctx context.Context) error
}

func (r *IdentityRotator) Rotate(ctx context.Context) error {
	return r.RotateFn(ctx)
}
