package engine

// scriptedRand replays values; Intn clamps each into [0,n).
type scriptedRand struct {
	values []int
	next   int
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v >= n {
		return n - 1
	}
	return v
}
