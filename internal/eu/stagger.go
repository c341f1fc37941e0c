package eu

import (
	"sync"
	"time"

	"tum/internal/pkg/iterator"
)

// staggerSource hands out a round-robin sequence of small delays so that
// many dialer workers reconnecting around the same moment (startup, or
// after a shared upstream hiccup) don't all re-dial in the same tick.
// iterator.Iterator is not itself safe for concurrent use, so access is
// serialized with a mutex.
type staggerSource struct {
	mu   sync.Mutex
	iter iterator.Iterator[time.Duration]
}

// newStaggerSource builds a source with n slots spaced 20ms apart,
// repeating every 50 slots, so no delay exceeds 980ms.
func newStaggerSource(n int) *staggerSource {
	if n < 1 {
		n = 1
	}
	slots := make([]time.Duration, n)
	for i := range slots {
		slots[i] = time.Duration(i%50) * 20 * time.Millisecond
	}
	return &staggerSource{iter: iterator.Iterator[time.Duration]{Items: slots}}
}

func (s *staggerSource) next() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iter.Next()
}
