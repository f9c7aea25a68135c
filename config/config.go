package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	Database DatabaseConfig

	// Chat pipeline
	Chat ChatConfig

	// Knowledge base
	Knowledge KnowledgeConfig

	// Translation service
	Translation TranslationConfig

	// AI fallback answers
	AI AIConfig

	// WhatsApp channel
	WhatsApp WhatsAppConfig

	// SMS channel
	SMS SMSConfig

	// Outbreak alert fan-out
	Alerts AlertConfig

	// Security
	Security SecurityConfig
}

type DatabaseConfig struct {
	Type     string // "memory", "mongodb" or "postgresql"
	URI      string
	Name     string
	Host     string
	Port     string
	Username string
	Password string

	// Connection pool settings
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
}

type ChatConfig struct {
	// RequestTimeout bounds one pipeline run; on expiry the user gets the
	// canned fallback reply instead of an error.
	RequestTimeout   time.Duration
	SessionTTL       time.Duration
	SessionSweep     time.Duration
	DefaultLanguage  string
	EmergencyNumber  string
	HighConfidence   float64 // analytics threshold for "accurate" turns
}

type KnowledgeConfig struct {
	// DataPath points at a JSON knowledge base file. Empty means the
	// built-in seed data.
	DataPath string
}

type TranslationConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type AIConfig struct {
	Provider  string // "openai"
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type WhatsAppConfig struct {
	AccessToken        string
	PhoneNumberID      string
	VerifyToken        string
	AppSecret          string
	APIVersion         string
	DefaultCountryCode string
}

type SMSConfig struct {
	Provider   string // "twilio"
	AccountSID string
	AuthToken  string
	FromNumber string
}

type AlertConfig struct {
	SendRetries  int
	RetryBackoff time.Duration
}

type SecurityConfig struct {
	AllowedOrigins []string
	TrustedProxies []string
}

var cfg *Config

// Load initializes the configuration
func Load() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg = &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		Database: DatabaseConfig{
			Type:     getEnv("DB_TYPE", "memory"),
			URI:      getEnv("DATABASE_URL", ""),
			Name:     getEnv("DB_NAME", "health_chatbot"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),

			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MinConnections: getEnvAsInt("DB_MIN_CONNECTIONS", 10),
			MaxIdleTime:    getEnvAsDuration("DB_MAX_IDLE_TIME", "30m"),
		},

		Chat: ChatConfig{
			RequestTimeout:  getEnvAsDuration("CHAT_REQUEST_TIMEOUT", "5s"),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", "30m"),
			SessionSweep:    getEnvAsDuration("SESSION_SWEEP_INTERVAL", "5m"),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
			EmergencyNumber: getEnv("EMERGENCY_NUMBER", "108"),
			HighConfidence:  getEnvAsFloat("HIGH_CONFIDENCE_THRESHOLD", 0.8),
		},

		Knowledge: KnowledgeConfig{
			DataPath: getEnv("KNOWLEDGE_BASE_PATH", ""),
		},

		Translation: TranslationConfig{
			Endpoint: getEnv("TRANSLATION_ENDPOINT", ""),
			APIKey:   getEnv("TRANSLATION_API_KEY", ""),
			Timeout:  getEnvAsDuration("TRANSLATION_TIMEOUT", "3s"),
		},

		AI: AIConfig{
			Provider:  getEnv("AI_PROVIDER", "openai"),
			APIKey:    getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("AI_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvAsInt("AI_MAX_TOKENS", 500),
			Timeout:   getEnvAsDuration("AI_TIMEOUT", "30s"),
		},

		WhatsApp: WhatsAppConfig{
			AccessToken:        getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID:      getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			VerifyToken:        getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			AppSecret:          getEnv("WHATSAPP_APP_SECRET", ""),
			APIVersion:         getEnv("WHATSAPP_API_VERSION", "v18.0"),
			DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "91"),
		},

		SMS: SMSConfig{
			Provider:   getEnv("SMS_PROVIDER", "twilio"),
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},

		Alerts: AlertConfig{
			SendRetries:  getEnvAsInt("ALERT_SEND_RETRIES", 3),
			RetryBackoff: getEnvAsDuration("ALERT_RETRY_BACKOFF", "2s"),
		},

		Security: SecurityConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
	}

	// Validate configuration
	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the loaded configuration
func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not loaded. Call Load() first")
	}
	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	// Simple comma-separated parsing
	return strings.Split(value, ",")
}

func validate() error {
	switch cfg.Database.Type {
	case "memory", "mongodb", "postgresql":
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	if cfg.Database.Type != "memory" && cfg.Database.URI == "" {
		if cfg.Database.Host == "" || cfg.Database.Port == "" {
			return fmt.Errorf("database URI or host/port must be provided")
		}
	}

	if cfg.Chat.RequestTimeout <= 0 {
		return fmt.Errorf("chat request timeout must be positive")
	}

	if cfg.WhatsApp.AccessToken != "" && cfg.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID is required when an access token is set")
	}

	return nil
}

// BuildDatabaseURI constructs the database URI if not provided
func (c *Config) BuildDatabaseURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	switch c.Database.Type {
	case "mongodb":
		if c.Database.Username != "" && c.Database.Password != "" {
			return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
				c.Database.Username,
				c.Database.Password,
				c.Database.Host,
				c.Database.Port,
				c.Database.Name,
			)
		}
		return fmt.Sprintf("mongodb://%s:%s/%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	case "postgresql":
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	default:
		return ""
	}
}
