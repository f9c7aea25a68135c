package database

import (
	"context"
	"sync"
	"time"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// MemoryStore is the in-process ConversationStore. It is the default
// backend and the one the tests run against.
type MemoryStore struct {
	mu             sync.RWMutex
	records        []models.ConversationRecord
	highConfidence float64
}

func NewMemoryStore(highConfidence float64) *MemoryStore {
	return &MemoryStore{highConfidence: highConfidence}
}

func (m *MemoryStore) Log(_ context.Context, rec models.ConversationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Recent returns up to limit records for the session, newest first.
func (m *MemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]models.ConversationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.ConversationRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].SessionID == sessionID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) Stats(_ context.Context, since time.Time) (*models.ConversationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var window []models.ConversationRecord
	for _, r := range m.records {
		if !r.CreatedAt.Before(since) {
			window = append(window, r)
		}
	}
	return aggregateStats(window, m.highConfidence), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close(context.Context) error { return nil }
