package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/utils"
)

// AssessmentDisclaimer is attached to every assessment result.
const AssessmentDisclaimer = "This assessment is for informational purposes only and does not replace professional medical advice."

const (
	// maxCandidates caps the ranked disease list in a result.
	maxCandidates = 5
	// escalationDays is the symptom duration that bumps urgency one level.
	escalationDays = 7
)

var urgencyRecommendations = map[models.Severity][]string{
	models.SeverityLow: {
		"Rest and drink plenty of fluids.",
		"Monitor your symptoms over the next 2-3 days.",
	},
	models.SeverityModerate: {
		"Rest, stay hydrated and avoid strenuous activity.",
		"Keep track of your temperature and any new symptoms.",
	},
	models.SeverityHigh: {
		"Do not ignore these symptoms.",
		"Rest and drink fluids until you can be seen by a doctor.",
	},
	models.SeverityCritical: {
		"Seek emergency medical care immediately.",
		"Do not wait for the symptoms to improve on their own.",
	},
}

var urgencyNextSteps = map[models.Severity][]string{
	models.SeverityLow: {
		"Self-care at home is usually enough.",
		"See a doctor if symptoms worsen or new symptoms appear.",
	},
	models.SeverityModerate: {
		"Visit your nearest health centre if symptoms persist beyond 2 days.",
		"Avoid close contact with others in case the illness is contagious.",
	},
	models.SeverityHigh: {
		"Consult a doctor within 24 hours.",
		"Note down your symptoms and how long you have had them for the visit.",
	},
	models.SeverityCritical: {
		"Call the emergency number or go to the nearest emergency department now.",
		"If possible, have someone accompany you.",
	},
}

// AssessmentService ranks knowledge base diseases against reported symptoms
// and derives an urgency level. It is deterministic and never consults the
// AI answer service.
type AssessmentService struct {
	idx              *knowledge.Index
	emergencyPhrases []string
	emergencyNumber  string
}

func NewAssessmentService(idx *knowledge.Index, emergencyPhrases []string, emergencyNumber string) *AssessmentService {
	s := &AssessmentService{
		idx:             idx,
		emergencyNumber: emergencyNumber,
	}
	// Phrases are matched against normalized message text, so they must be
	// normalized the same way ("can't breathe" loses its apostrophe).
	for _, phrase := range emergencyPhrases {
		s.emergencyPhrases = append(s.emergencyPhrases, utils.NormalizeText(phrase))
	}
	return s
}

// Assess matches the reported symptoms against the knowledge base. Symptom
// terms that resolve to nothing are dropped; RawMessage, when present, is
// scanned for emergency phrasing and a symptom duration.
func (s *AssessmentService) Assess(req models.AssessmentRequest) *models.AssessmentResult {
	matched := s.canonicalize(req.Symptoms)

	duration := req.DurationDays
	if duration == 0 && req.RawMessage != "" {
		if days, ok := utils.ExtractDurationDays(req.RawMessage); ok {
			duration = days
		}
	}
	emergency := s.emergencyInMessage(req.RawMessage)

	result := &models.AssessmentResult{
		ID:              uuid.NewString(),
		MatchedSymptoms: matched,
		Urgency:         models.SeverityLow,
		DurationDays:    duration,
		Disclaimer:      AssessmentDisclaimer,
		AssessedAt:      time.Now(),
	}

	if len(matched) == 0 && !emergency {
		result.NeedMoreInfo = true
		result.Recommendations = []string{"Please share more information about how you are feeling."}
		result.NextSteps = []string{"List your symptoms one by one, for example: fever, cough, headache."}
		return result
	}

	result.Candidates = s.rankCandidates(matched)

	urgency := s.diseaseUrgency(matched)
	if urgency.Rank() < models.SeverityHigh.Rank() && duration >= escalationDays {
		urgency = urgency.Escalate()
	}
	// A symptom the knowledge base itself marks severe keeps its weight
	// even when no disease explains it.
	urgency = models.MaxSeverity(urgency, s.symptomUrgency(matched))
	if emergency {
		urgency = models.SeverityCritical
	}
	result.Urgency = urgency

	// A recognized symptom that maps to no known disease still deserves a
	// follow-up question, unless the urgency already says "see a doctor".
	if len(result.Candidates) == 0 && urgency.Rank() < models.SeverityHigh.Rank() {
		result.NeedMoreInfo = true
	}

	result.Recommendations = append([]string{}, urgencyRecommendations[urgency]...)
	result.NextSteps = append([]string{}, urgencyNextSteps[urgency]...)
	if len(result.Candidates) > 0 && result.Candidates[0].Precautions != "" {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Prevention for %s: %s", result.Candidates[0].Name, result.Candidates[0].Precautions))
	}
	if urgency == models.SeverityCritical {
		result.EmergencyNumber = s.emergencyNumber
	}

	return result
}

// canonicalize resolves symptom terms to canonical knowledge base names,
// dropping unknown terms and duplicates while preserving order.
func (s *AssessmentService) canonicalize(symptoms []string) []string {
	matched := make([]string, 0, len(symptoms))
	seen := make(map[string]bool, len(symptoms))
	for _, term := range symptoms {
		name, ok := s.idx.CanonicalSymptom(term)
		if !ok {
			continue
		}
		if !seen[name] {
			seen[name] = true
			matched = append(matched, name)
		}
	}
	return matched
}

func (s *AssessmentService) rankCandidates(matched []string) []models.CandidateDisease {
	matchedSet := make(map[string]bool, len(matched))
	for _, name := range matched {
		matchedSet[name] = true
	}

	var candidates []models.CandidateDisease
	for _, d := range s.idx.Diseases() {
		if len(d.Symptoms) == 0 {
			continue
		}
		hits := 0
		for _, sym := range d.Symptoms {
			if matchedSet[sym] {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		candidates = append(candidates, models.CandidateDisease{
			Name:        d.Name,
			Score:       float64(hits) / float64(len(d.Symptoms)),
			Severity:    d.Severity,
			Description: d.Description,
			Precautions: d.Prevention,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Severity != candidates[j].Severity {
			return candidates[i].Severity.Rank() > candidates[j].Severity.Rank()
		}
		return candidates[i].Name < candidates[j].Name
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	for i := range candidates {
		candidates[i].Score = math.Round(candidates[i].Score*100) / 100
	}
	return candidates
}

// diseaseUrgency is the highest severity among diseases sharing at least
// one symptom with the report: any critical match forces critical, any
// high match forces high. Low when nothing matches. Every matched disease
// counts, including ones the candidate cap drops.
func (s *AssessmentService) diseaseUrgency(matched []string) models.Severity {
	matchedSet := make(map[string]bool, len(matched))
	for _, name := range matched {
		matchedSet[name] = true
	}

	urgency := models.SeverityLow
	for _, d := range s.idx.Diseases() {
		for _, sym := range d.Symptoms {
			if matchedSet[sym] {
				urgency = models.MaxSeverity(urgency, d.Severity)
				break
			}
		}
	}
	return urgency
}

// symptomUrgency is the highest severity among the matched symptoms
// themselves. It only ever raises the disease-derived urgency, for
// presentations like chest pain that match no disease.
func (s *AssessmentService) symptomUrgency(matched []string) models.Severity {
	urgency := models.SeverityLow
	for _, name := range matched {
		sym, err := s.idx.Symptom(name)
		if err != nil {
			continue
		}
		urgency = models.MaxSeverity(urgency, sym.Severity)
	}
	return urgency
}

func (s *AssessmentService) emergencyInMessage(raw string) bool {
	if raw == "" {
		return false
	}
	normalized := utils.NormalizeText(raw)
	for _, phrase := range s.emergencyPhrases {
		if utils.ContainsPhrase(normalized, phrase) {
			return true
		}
	}
	return false
}
