package database

import (
	"sync"
	"time"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// SessionStore keeps chat sessions in memory and serializes all work on a
// session behind a per-session lock: turns for the same session run one at
// a time while different sessions proceed in parallel. Idle sessions are
// evicted by a janitor goroutine after the configured TTL.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.ChatSession

	// refs and touched are guarded by the store mutex, not entry.mu, so
	// the janitor never has to take a session lock.
	refs    int
	touched time.Time
}

func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	s := &SessionStore{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}
	return s
}

// Acquire locks and returns the session, creating it on first use. Callers
// must call release exactly once; until then every other Acquire for the
// same id blocks.
func (s *SessionStore) Acquire(id string, channel models.MessageChannel) (*models.ChatSession, func()) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		now := time.Now()
		e = &sessionEntry{
			session: &models.ChatSession{
				ID:         id,
				Channel:    channel,
				LastIntent: models.IntentUnknown,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		}
		s.entries[id] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	release := func() {
		e.session.UpdatedAt = time.Now()
		e.mu.Unlock()

		s.mu.Lock()
		e.refs--
		e.touched = time.Now()
		s.mu.Unlock()
	}
	return e.session, release
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop shuts down the janitor. Safe to call more than once.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stop:
			return
		}
	}
}

// sweep drops sessions that are unreferenced and idle past the TTL.
func (s *SessionStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.refs == 0 && now.Sub(e.touched) > s.ttl {
			delete(s.entries, id)
		}
	}
}
