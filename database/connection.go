package database

import (
	"fmt"

	"github.com/Shubh1hulk/SIH-Demo/config"
)

// Connect builds the conversation store selected by the configuration.
// "memory" needs no external service and is the default.
func Connect(cfg *config.Config) (ConversationStore, error) {
	switch cfg.Database.Type {
	case "memory":
		return NewMemoryStore(cfg.Chat.HighConfidence), nil
	case "mongodb":
		return NewMongoStore(cfg)
	case "postgresql":
		return NewPostgresStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}
