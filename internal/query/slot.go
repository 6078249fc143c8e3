package query

import (
	"context"
	"sync"
)

// Slot serializes one logical query in the UI. Begin cancels the request
// it supersedes; only the latest token may apply its response.
type Slot struct {
	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
}

// Begin starts a new request and returns its context and token
func (s *Slot) Begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.token++
	return ctx, s.token
}

// Current reports whether token belongs to the latest request
func (s *Slot) Current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.token
}

// Token is the latest issued token
func (s *Slot) Token() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Cancel aborts the in-flight request, if any, and retires its token
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token++
}
