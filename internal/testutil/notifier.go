package testutil

import (
	"context"
	"sync"

	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
)

// StubNotifier records every notice it is asked to deliver.
type StubNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
	// Err is returned from every Notify call when set.
	Err error
}

func (s *StubNotifier) Notify(_ context.Context, n notify.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	return s.Err
}

// Notices returns a copy of the recorded notices.
func (s *StubNotifier) Notices() []notify.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Notice(nil), s.notices...)
}

// OfKind returns the texts of recorded notices of kind.
func (s *StubNotifier) OfKind(kind notify.Kind) []string {
	var out []string
	for _, n := range s.Notices() {
		if n.Kind == kind {
			out = append(out, n.Text)
		}
	}
	return out
}

// Reset forgets recorded notices.
func (s *StubNotifier) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = nil
}
