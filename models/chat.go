package models

import "time"

type MessageIntent string

const (
	IntentSymptomQuery     MessageIntent = "symptom_query"
	IntentVaccinationQuery MessageIntent = "vaccination_query"
	IntentDiseaseInfo      MessageIntent = "disease_info"
	IntentOutbreakAlert    MessageIntent = "outbreak_alert"
	IntentGreeting         MessageIntent = "greeting"
	IntentUnknown          MessageIntent = "unknown"
)

// MessageChannel represents the communication channel
type MessageChannel string

const (
	ChannelWeb      MessageChannel = "web"
	ChannelWhatsApp MessageChannel = "whatsapp"
	ChannelSMS      MessageChannel = "sms"
)

type ChatRequest struct {
	Message   string         `json:"message" binding:"required"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Language  string         `json:"language,omitempty"`
	Channel   MessageChannel `json:"channel,omitempty"`
}

type ChatResponse struct {
	Response    string            `json:"response"`
	SessionID   string            `json:"session_id"`
	Intent      MessageIntent     `json:"intent"`
	Confidence  float64           `json:"confidence"`
	Language    string            `json:"language"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Assessment  *AssessmentResult `json:"assessment,omitempty"`
	Data        map[string]any    `json:"data,omitempty"`
}

// ChatSession is the mutable per-conversation state. The session store
// serializes all access to one session, so fields carry no locks.
// LowConfidence marks turns whose text reached the pipeline untranslated,
// so the recorded intent and symptoms may not reflect what the user meant.
type ChatSession struct {
	ID             string         `json:"session_id"`
	UserID         string         `json:"user_id,omitempty"`
	Channel        MessageChannel `json:"channel"`
	Language       string         `json:"language"`
	LastIntent     MessageIntent  `json:"last_intent"`
	LastConfidence float64        `json:"last_confidence"`
	LowConfidence  bool           `json:"low_confidence,omitempty"`
	Symptoms       []string       `json:"symptoms,omitempty"`
	TurnCount      int            `json:"turn_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// RememberSymptoms accumulates newly extracted symptoms, deduplicated,
// preserving first-seen order.
func (s *ChatSession) RememberSymptoms(names []string) {
	for _, n := range names {
		seen := false
		for _, have := range s.Symptoms {
			if have == n {
				seen = true
				break
			}
		}
		if !seen {
			s.Symptoms = append(s.Symptoms, n)
		}
	}
}

// ConversationRecord is one completed turn, kept for analytics.
type ConversationRecord struct {
	ID         string         `bson:"_id" json:"id"`
	SessionID  string         `bson:"session_id" json:"session_id"`
	UserID     string         `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Channel    MessageChannel `bson:"channel" json:"channel"`
	Language   string         `bson:"language" json:"language"`
	MessageIn  string         `bson:"message_in" json:"message_in"`
	MessageOut string         `bson:"message_out" json:"message_out"`
	Intent     MessageIntent  `bson:"intent" json:"intent"`
	Confidence float64        `bson:"confidence" json:"confidence"`
	Urgency    Severity       `bson:"urgency,omitempty" json:"urgency,omitempty"`
	CreatedAt  time.Time      `bson:"created_at" json:"created_at"`
}

// ConversationStats aggregates logged turns for the analytics dashboard.
type ConversationStats struct {
	Total          int            `json:"total_conversations"`
	ByIntent       map[string]int `json:"intent_distribution"`
	ByLanguage     map[string]int `json:"language_distribution"`
	ByChannel      map[string]int `json:"channel_distribution"`
	AvgConfidence  float64        `json:"average_confidence"`
	HighConfidence int            `json:"high_confidence"`
}

// ReplyContent is the typed outcome of one pipeline turn. Exactly one of
// the implementations below is produced per turn and the response composer
// switches over them exhaustively.
type ReplyContent interface {
	replyKind() string
}

type GreetingReply struct {
	FirstTurn bool
}

type AssessmentReply struct {
	Result *AssessmentResult
}

// InfoTopic selects which lookup an InfoReply carries.
type InfoTopic string

const (
	InfoTopicDisease     InfoTopic = "disease"
	InfoTopicVaccination InfoTopic = "vaccination"
	InfoTopicAlerts      InfoTopic = "alerts"
	InfoTopicGeneral     InfoTopic = "general"
)

type InfoReply struct {
	Topic     InfoTopic
	Disease   *Disease
	Schedules []VaccinationSchedule
	AgeMonths int
	Alerts    []OutbreakAlert
	Region    string
	Answer    string
}

// ClarificationReply asks the user for more input. PhraseKey, when set,
// names a pre-translated canned phrase and takes precedence over Prompt.
type ClarificationReply struct {
	Prompt      string
	PhraseKey   string
	Suggestions []string
}

func (GreetingReply) replyKind() string      { return "greeting" }
func (AssessmentReply) replyKind() string    { return "assessment" }
func (InfoReply) replyKind() string          { return "info" }
func (ClarificationReply) replyKind() string { return "clarification" }

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
