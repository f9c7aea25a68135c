package database

import (
	"context"
	"time"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// ConversationStore persists completed chat turns and answers the
// analytics queries over them.
type ConversationStore interface {
	Log(ctx context.Context, rec models.ConversationRecord) error
	Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationRecord, error)
	Stats(ctx context.Context, since time.Time) (*models.ConversationStats, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// aggregateStats folds records into the dashboard shape. Shared by the
// backends that filter in the database but aggregate here.
func aggregateStats(records []models.ConversationRecord, highConfidence float64) *models.ConversationStats {
	stats := &models.ConversationStats{
		ByIntent:   make(map[string]int),
		ByLanguage: make(map[string]int),
		ByChannel:  make(map[string]int),
	}

	var confidenceSum float64
	for _, r := range records {
		stats.Total++
		stats.ByIntent[string(r.Intent)]++
		stats.ByLanguage[r.Language]++
		stats.ByChannel[string(r.Channel)]++
		confidenceSum += r.Confidence
		if r.Confidence >= highConfidence {
			stats.HighConfidence++
		}
	}
	if stats.Total > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.Total)
	}
	return stats
}
