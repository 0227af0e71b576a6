// Package session keeps calculator keypads alive between HTTP requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/keypad"

	"github.com/google/uuid"
)

// Errors returned by Store.
var (
	ErrNotFound  = errors.New("session not found")
	ErrStoreFull = errors.New("session store full")
)

// Session is one calculator. Access to its keypad is serialised by Do.
type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	keypad   *keypad.Keypad
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's keypad.
func (s *Session) Do(fn func(*keypad.Keypad) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.keypad)
}

// Snapshot returns a consistent view of the session's keypad.
func (s *Session) Snapshot() keypad.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keypad.Snapshot()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Options bounds the lifetime and number of sessions in a Store.
type Options struct {
	// TTL is how long a session may sit unused. Zero disables expiry.
	TTL time.Duration
	// MaxSessions caps the store. Zero means no limit.
	MaxSessions int
}

// Store holds live sessions keyed by ID. It is safe for concurrent use.
type Store struct {
	opts Options
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty Store.
func NewStore(opts Options) *Store {
	return &Store{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh keypad.
func (s *Store) Create() (*Session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		s.sweepLocked(now)
		if len(s.sessions) >= s.opts.MaxSessions {
			return nil, fmt.Errorf("create session (max %d): %w", s.opts.MaxSessions, ErrStoreFull)
		}
	}

	sess := &Session{
		ID:       uuid.New().String(),
		Created:  now,
		keypad:   keypad.New(),
		lastUsed: now,
	}
	s.sessions[sess.ID] = sess

	createdSessions.Inc()
	activeSessions.Inc()

	return sess, nil
}

// Get returns a live session and marks it used.
func (s *Store) Get(id string) (*Session, error) {
	now := s.now()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get session %q: %w", id, ErrNotFound)
	}

	if s.expired(sess, now) {
		s.mu.Lock()
		if s.sessions[id] == sess {
			s.removeLocked(id)
			expiredSessions.Inc()
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("get session %q: %w", id, ErrNotFound)
	}

	sess.touch(now)
	return sess, nil
}

// Delete removes a session. It returns ErrNotFound for unknown ids.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("delete session %q: %w", id, ErrNotFound)
	}
	s.removeLocked(id)
	return nil
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 || s.opts.TTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Sweep()
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.removeLocked(id)
			removed++
		}
	}
	expiredSessions.Add(float64(removed))
	return removed
}

func (s *Store) removeLocked(id string) {
	delete(s.sessions, id)
	activeSessions.Dec()
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	if s.opts.TTL <= 0 {
		return false
	}
	return now.Sub(sess.idleSince()) > s.opts.TTL
}
