// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

// Store holds triage results in memory, in insertion order. Default store
// for a batch run.
type Store struct {
	mu      sync.RWMutex
	results map[string]*triage.Result // ticket ID -> result
	order   []string
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		results: make(map[string]*triage.Result),
	}
}

// Put stores a copy of the triage result, replacing any previous result for
// the same ticket.
func (s *Store) Put(_ context.Context, r *triage.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[r.TicketID]; !exists {
		s.order = append(s.order, r.TicketID)
	}
	cp := *r
	s.results[r.TicketID] = &cp
	return nil
}

// Get retrieves a triage result by ticket ID. Returns a copy.
func (s *Store) Get(_ context.Context, ticketID string) (*triage.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[ticketID]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

// List returns copies of all results in insertion order.
func (s *Store) List(_ context.Context) ([]*triage.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*triage.Result, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.results[id]
		out = append(out, &cp)
	}
	return out, nil
}
