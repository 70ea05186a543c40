package testutil

import "sync"

// SeqRand replays Values in order, wrapping around, clamped to each call's bound.
type SeqRand struct {
	mu     sync.Mutex
	Values []int
	next   int
}

func (s *SeqRand) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}
