package ledger

import (
	"sync"
	"time"
)

type entry struct {
	ledger   *Ledger
	lastSeen time.Time
}

// Sessions maps session ids to ledgers. A ledger is created on first use
// and dropped by Sweep once idle for too long.
type Sessions struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*entry
}

func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		now:     now,
		entries: make(map[string]*entry),
	}
}

// Get returns the ledger for id, creating it if needed, and marks it as seen.
func (s *Sessions) Get(id string) *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{ledger: New(s.now)}
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	return e.ledger
}

// Lookup returns the ledger for id without creating one. A hit marks it as seen.
func (s *Sessions) Lookup(id string) (*Ledger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.ledger, true
}

// Sweep removes ledgers not seen within maxIdle and returns how many were dropped.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	dropped := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			dropped++
		}
	}
	return dropped
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
