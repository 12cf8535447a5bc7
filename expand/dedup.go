package expand

import (
	"sync"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Set = (*Set)(nil)

// Set is the run-lifetime dedup set: an exact, monotonically growing set of
// every keyword ever admitted to the frontier. Membership must be exact (a
// false positive would silently drop a keyword), so this is a plain map
// under a mutex rather than a probabilistic filter.
type Set struct {
	mu   sync.Mutex
	seen map[keysheet.Keyword]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[keysheet.Keyword]struct{})}
}

// Admit atomically tests membership and inserts when absent. Exactly one of
// any number of concurrent admitters of the same keyword receives true.
func (s *Set) Admit(k keysheet.Keyword) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

// Len returns the number of admitted keywords.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
