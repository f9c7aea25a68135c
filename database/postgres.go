package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore is the PostgreSQL-backed ConversationStore.
type PostgresStore struct {
	db             *sql.DB
	highConfidence float64
}

// NewPostgresStore opens the pool, verifies connectivity and applies the
// embedded schema.
func NewPostgresStore(cfg *config.Config) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.BuildDatabaseURI())
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MinConnections)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Printf("Connected to PostgreSQL database: %s", cfg.Database.Name)

	return &PostgresStore{db: db, highConfidence: cfg.Chat.HighConfidence}, nil
}

func (s *PostgresStore) Log(ctx context.Context, rec models.ConversationRecord) error {
	const q = `
		INSERT INTO conversations
			(id, session_id, user_id, channel, language, message_in, message_out, intent, confidence, urgency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.SessionID, rec.UserID, string(rec.Channel), rec.Language,
		rec.MessageIn, rec.MessageOut, string(rec.Intent), rec.Confidence,
		string(rec.Urgency), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log conversation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationRecord, error) {
	const q = `
		SELECT id, session_id, user_id, channel, language, message_in, message_out, intent, confidence, urgency, created_at
		FROM conversations
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var records []models.ConversationRecord
	for rows.Next() {
		var rec models.ConversationRecord
		var channel, intent, urgency string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserID, &channel, &rec.Language,
			&rec.MessageIn, &rec.MessageOut, &intent, &rec.Confidence, &urgency, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		rec.Channel = models.MessageChannel(channel)
		rec.Intent = models.MessageIntent(intent)
		rec.Urgency = models.Severity(urgency)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context, since time.Time) (*models.ConversationStats, error) {
	stats := &models.ConversationStats{
		ByIntent:   make(map[string]int),
		ByLanguage: make(map[string]int),
		ByChannel:  make(map[string]int),
	}

	const totals = `
		SELECT COUNT(*), COALESCE(AVG(confidence), 0),
		       COUNT(*) FILTER (WHERE confidence >= $2)
		FROM conversations
		WHERE created_at >= $1`
	if err := s.db.QueryRowContext(ctx, totals, since, s.highConfidence).
		Scan(&stats.Total, &stats.AvgConfidence, &stats.HighConfidence); err != nil {
		return nil, fmt.Errorf("failed to aggregate totals: %w", err)
	}

	groups := []struct {
		column string
		into   map[string]int
	}{
		{"intent", stats.ByIntent},
		{"language", stats.ByLanguage},
		{"channel", stats.ByChannel},
	}
	for _, g := range groups {
		q := fmt.Sprintf(`SELECT %s, COUNT(*) FROM conversations WHERE created_at >= $1 GROUP BY %s`, g.column, g.column)
		rows, err := s.db.QueryContext(ctx, q, since)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate by %s: %w", g.column, err)
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s aggregate: %w", g.column, err)
			}
			g.into[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return stats, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL: %w", err)
	}
	log.Println("Disconnected from PostgreSQL")
	return nil
}
