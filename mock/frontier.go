package mock

import (
	"context"
	"time"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Queue = (*Queue)(nil)

// Queue is a mock implementation of keysheet.Queue.
type Queue struct {
	PushFn func(k keysheet.Keyword)
	PopFn  func(ctx context.Context, wait time.Duration) (keysheet.Keyword, bool)
	LenFn  func() int
}

func (q *Queue) Push(k keysheet.Keyword) {
	q.PushFn(k)
}

func (q *Queue) Pop(ctx context.Context, wait time.Duration) (keysheet.Keyword, bool) {
	return q.PopFn(ctx, wait)
}

func (q *Queue) Len() int {
	return q.LenFn()
}

var _ keysheet.Set = (*Set)(nil)

// Set is a mock implementation of keysheet.Set.
type Set struct {
	AdmitFn func(k keysheet.Keyword) bool
	LenFn   func() int
}

func (s *Set) Admit(k keysheet.Keyword) bool {
	return s.AdmitFn(k)
}

func (s *Set) Len() int {
	return s.LenFn()
}

var _ keysheet.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of keysheet.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p.WaitFn == nil {
		return nil
	}
	return p.WaitFn(ctx)
}

var _ keysheet.ProxyRotator = (*ProxyRotator)(nil)

// ProxyRotator is a mock implementation of keysheet.ProxyRotator.
type ProxyRotator struct {
	NextFn func() (string, bool)
}

func (r *ProxyRotator) Next() (string, bool) {
	return r.NextFn()
}
