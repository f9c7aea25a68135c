package models

import "time"

// Severity is the shared ordered scale for symptom severity, disease
// severity and assessment urgency: low < moderate < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityModerate: 1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the position on the scale, 0 for low through 3 for critical.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Escalate moves one step up the scale. Critical stays critical.
func (s Severity) Escalate() Severity {
	switch s {
	case SeverityLow:
		return SeverityModerate
	case SeverityModerate:
		return SeverityHigh
	case SeverityHigh:
		return SeverityCritical
	default:
		return s
	}
}

// MaxSeverity returns the higher of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Disease is a knowledge base entry. Symptoms holds canonical symptom
// names; every entry must resolve to a known Symptom.
type Disease struct {
	ID          string   `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Aliases     []string `bson:"aliases,omitempty" json:"aliases,omitempty"`
	Symptoms    []string `bson:"symptoms" json:"symptoms"`
	Severity    Severity `bson:"severity" json:"severity"`
	Description string   `bson:"description" json:"description"`
	Prevention  string   `bson:"prevention" json:"prevention"`
	Treatment   string   `bson:"treatment" json:"treatment"`
	Contagious  bool     `bson:"contagious" json:"contagious"`
}

// Symptom is a knowledge base entry. RelatedDiseases holds disease names;
// every entry must resolve to a known Disease.
type Symptom struct {
	Name            string   `bson:"name" json:"name"`
	Synonyms        []string `bson:"synonyms,omitempty" json:"synonyms,omitempty"`
	Severity        Severity `bson:"severity" json:"severity"`
	RelatedDiseases []string `bson:"related_diseases" json:"related_diseases"`
}

type VaccineDose struct {
	AgeMonths int    `json:"age_months"`
	Label     string `json:"label"`
}

type VaccinationSchedule struct {
	Vaccine  string        `json:"vaccine"`
	Protects []string      `json:"protects"`
	Doses    []VaccineDose `json:"doses"`
	Notes    string        `json:"notes,omitempty"`
}

type OutbreakAlert struct {
	ID         string    `bson:"_id" json:"id"`
	Disease    string    `bson:"disease" json:"disease"`
	Region     string    `bson:"region" json:"region"`
	AlertLevel Severity  `bson:"alert_level" json:"alert_level"`
	Message    string    `bson:"message" json:"message"`
	IssuedAt   time.Time `bson:"issued_at" json:"issued_at"`
	Active     bool      `bson:"active" json:"active"`
}

// AlertSubscription registers a phone number for outbreak alert fan-out.
// Region "all" receives every alert.
type AlertSubscription struct {
	ID          string         `bson:"_id" json:"id"`
	PhoneNumber string         `bson:"phone_number" json:"phone_number"`
	Channel     MessageChannel `bson:"channel" json:"channel"`
	Region      string         `bson:"region" json:"region"`
	Language    string         `bson:"language" json:"language"`
	Active      bool           `bson:"active" json:"active"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}

// AssessmentRequest is the input to the assessment engine. Symptoms are
// canonical names; RawMessage, when present, is the original user text and
// is scanned for emergency phrasing.
type AssessmentRequest struct {
	Symptoms     []string `json:"symptoms" binding:"required"`
	RawMessage   string   `json:"raw_message,omitempty"`
	DurationDays int      `json:"duration_days,omitempty"`
	AgeYears     int      `json:"age_years,omitempty"`
	Language     string   `json:"language,omitempty"`
}

// CandidateDisease is one ranked match in an assessment result.
type CandidateDisease struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
	Precautions string   `json:"precautions,omitempty"`
}

type AssessmentResult struct {
	ID              string             `json:"id"`
	MatchedSymptoms []string           `json:"matched_symptoms"`
	Candidates      []CandidateDisease `json:"possible_conditions"`
	Urgency         Severity           `json:"urgency"`
	DurationDays    int                `json:"duration_days,omitempty"`
	NeedMoreInfo    bool               `json:"need_more_info"`
	Recommendations []string           `json:"recommendations"`
	NextSteps       []string           `json:"next_steps"`
	EmergencyNumber string             `json:"emergency_number,omitempty"`
	Disclaimer      string             `json:"disclaimer"`
	AssessedAt      time.Time          `json:"assessed_at"`
}
