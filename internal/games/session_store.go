package games

import (
	"fmt"
	"sync"
	"time"

	"coin-arcade-backend/internal/models"
)

// SessionStore keeps at most one in-flight round per player plus the
// per-player action cooldown. Implementations must serialize all operations
// against a single player's session: Acquire hands the session back with an
// exclusive hold that the caller releases when done.
//
// The store is process-local state with no durability guarantee; a restart
// forfeits in-flight wagers that were already debited. Known operational
// limitation, accepted for a virtual-coin system.
type SessionStore interface {
	// Create registers a round for its owner. Fails with ErrRoundActive if
	// the owner already has one.
	Create(session *models.RoundSession) error

	// Acquire returns the owner's round with an exclusive hold. The caller
	// must invoke release exactly once. Fails with ErrNoActiveRound.
	Acquire(ownerID string) (session *models.RoundSession, release func(), err error)

	// Remove evicts the owner's round. Must be called while holding the
	// session via Acquire (or from Create's caller on rollback).
	Remove(ownerID string)

	// Touch enforces the minimum inter-action interval. On success the
	// owner's last-action timestamp advances; on ErrRateLimited nothing
	// changes.
	Touch(ownerID string, minInterval time.Duration) error

	// SweepIdle evicts rounds whose owner has not acted for maxAge and
	// returns them for settlement.
	SweepIdle(maxAge time.Duration) []*models.RoundSession
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.RoundSession
	removed bool
}

// MemorySessionStore is the single-process SessionStore. A multi-instance
// deployment would swap in an implementation backed by a shared fast
// key-value store behind the same interface.
type MemorySessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*sessionEntry
	lastAction map[string]time.Time
	now        func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions:   make(map[string]*sessionEntry),
		lastAction: make(map[string]time.Time),
		now:        time.Now,
	}
}

func (s *MemorySessionStore) Create(session *models.RoundSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.OwnerID]; ok {
		return fmt.Errorf("%w: player %s", ErrRoundActive, session.OwnerID)
	}
	s.sessions[session.OwnerID] = &sessionEntry{session: session}
	return nil
}

func (s *MemorySessionStore) Acquire(ownerID string) (*models.RoundSession, func(), error) {
	s.mu.Lock()
	e := s.sessions[ownerID]
	s.mu.Unlock()

	if e == nil {
		return nil, nil, ErrNoActiveRound
	}

	e.mu.Lock()
	// The entry may have been evicted while we waited for its lock.
	if e.removed {
		e.mu.Unlock()
		return nil, nil, ErrNoActiveRound
	}
	return e.session, e.mu.Unlock, nil
}

func (s *MemorySessionStore) Remove(ownerID string) {
	s.mu.Lock()
	e := s.sessions[ownerID]
	delete(s.sessions, ownerID)
	s.mu.Unlock()

	if e != nil {
		e.removed = true
	}
}

func (s *MemorySessionStore) Touch(ownerID string, minInterval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if last, ok := s.lastAction[ownerID]; ok && now.Sub(last) < minInterval {
		return ErrRateLimited
	}
	s.lastAction[ownerID] = now
	return nil
}

// SweepIdle evicts rounds whose owner has not acted for maxAge and returns
// them for settlement. Idleness is measured from the last successful Touch,
// falling back to the round's start when the player never acted.
func (s *MemorySessionStore) SweepIdle(maxAge time.Duration) []*models.RoundSession {
	s.mu.Lock()
	owners := make([]string, 0, len(s.sessions))
	for owner := range s.sessions {
		owners = append(owners, owner)
	}
	s.mu.Unlock()

	var evicted []*models.RoundSession
	for _, owner := range owners {
		sess, release, err := s.Acquire(owner)
		if err != nil {
			continue
		}
		// Re-read under the hold: an action may have landed while we waited.
		s.mu.Lock()
		last, ok := s.lastAction[owner]
		s.mu.Unlock()
		if !ok || last.Before(sess.StartedAt) {
			last = sess.StartedAt
		}
		if s.now().Sub(last) > maxAge {
			s.Remove(owner)
			evicted = append(evicted, sess)
		}
		release()
	}
	return evicted
}
