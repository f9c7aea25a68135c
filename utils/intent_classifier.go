package utils

import (
	"fmt"
	"regexp"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// IntentRule describes how one intent is recognized. Keywords and Patterns
// are strong evidence; WeakKeywords alone never lift a message over the
// confidence threshold, which is how low-confidence classifications arise.
type IntentRule struct {
	Intent       models.MessageIntent
	Keywords     []string
	WeakKeywords []string
	Patterns     []string
}

// RuleSet is the injected classifier and extractor configuration.
type RuleSet struct {
	Rules            []IntentRule
	EmergencyPhrases []string
	// Synonyms extends the knowledge base synonym table: phrase -> canonical
	// symptom name.
	Synonyms map[string]string
}

// Classification is one classifier verdict. Confidence below the threshold
// yields IntentUnknown; that is a result state, not an error.
type Classification struct {
	Intent     models.MessageIntent
	Confidence float64
	Emergency  bool
}

// ConfidenceThreshold is the floor below which a verdict degrades to
// IntentUnknown.
const ConfidenceThreshold = 0.5

type compiledRule struct {
	intent       models.MessageIntent
	keywords     []string
	weakKeywords []string
	patterns     []*regexp.Regexp
}

type IntentClassifier struct {
	rules     []compiledRule
	emergency []string
	// priority breaks score ties when the previous turn does not decide:
	// symptom queries win, then the remaining intents in rule order.
	priority map[models.MessageIntent]int
}

func NewIntentClassifier(rs RuleSet) (*IntentClassifier, error) {
	ic := &IntentClassifier{
		priority: make(map[models.MessageIntent]int),
	}
	for _, phrase := range rs.EmergencyPhrases {
		ic.emergency = append(ic.emergency, NormalizeText(phrase))
	}

	for i, rule := range rs.Rules {
		cr := compiledRule{intent: rule.Intent}
		for _, kw := range rule.Keywords {
			cr.keywords = append(cr.keywords, NormalizeText(kw))
		}
		for _, kw := range rule.WeakKeywords {
			cr.weakKeywords = append(cr.weakKeywords, NormalizeText(kw))
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("intent %s pattern %q: %w", rule.Intent, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		ic.rules = append(ic.rules, cr)

		if rule.Intent == models.IntentSymptomQuery {
			ic.priority[rule.Intent] = 0
		} else {
			ic.priority[rule.Intent] = i + 1
		}
	}
	return ic, nil
}

// Classify scores the message against every rule and returns the winning
// intent with its confidence. previous is the last turn's intent and breaks
// exact score ties; pass IntentUnknown when there is no history.
func (ic *IntentClassifier) Classify(message string, previous models.MessageIntent) Classification {
	normalized := NormalizeText(message)
	if normalized == "" {
		return Classification{Intent: models.IntentUnknown}
	}

	// Emergency phrasing short-circuits straight to the assessment path.
	if ic.isEmergency(normalized) {
		return Classification{Intent: models.IntentSymptomQuery, Confidence: 0.95, Emergency: true}
	}

	best := Classification{Intent: models.IntentUnknown}
	for _, rule := range ic.rules {
		strong, weak := rule.score(normalized)
		if strong == 0 && weak == 0 {
			continue
		}
		conf := confidence(strong, weak)
		switch {
		case conf > best.Confidence:
		case conf == best.Confidence && ic.breaksTie(rule.intent, best.Intent, previous):
		default:
			continue
		}
		best = Classification{Intent: rule.intent, Confidence: conf}
	}

	if best.Confidence < ConfidenceThreshold {
		best.Intent = models.IntentUnknown
	}
	return best
}

func (ic *IntentClassifier) isEmergency(normalized string) bool {
	for _, phrase := range ic.emergency {
		if ContainsPhrase(normalized, phrase) {
			return true
		}
	}
	return false
}

func (ic *IntentClassifier) breaksTie(candidate, incumbent, previous models.MessageIntent) bool {
	if candidate == previous {
		return true
	}
	if incumbent == previous {
		return false
	}
	return ic.priority[candidate] < ic.priority[incumbent]
}

func (r compiledRule) score(normalized string) (strong, weak int) {
	for _, kw := range r.keywords {
		if ContainsPhrase(normalized, kw) {
			strong++
		}
	}
	for _, re := range r.patterns {
		if re.MatchString(normalized) {
			strong++
		}
	}
	for _, kw := range r.weakKeywords {
		if ContainsPhrase(normalized, kw) {
			weak++
		}
	}
	return strong, weak
}

// confidence maps evidence counts onto [0, 0.95]. Strong evidence starts
// at 0.7; weak evidence alone tops out at 0.45, under the threshold.
func confidence(strong, weak int) float64 {
	if strong > 0 {
		c := 0.7 + 0.05*float64(strong-1) + 0.02*float64(weak)
		if c > 0.95 {
			c = 0.95
		}
		return c
	}
	c := 0.3 + 0.05*float64(weak-1)
	if c > 0.45 {
		c = 0.45
	}
	return c
}

// DefaultRules is the shipped classifier configuration.
func DefaultRules() RuleSet {
	return RuleSet{
		Rules: []IntentRule{
			{
				Intent: models.IntentSymptomQuery,
				Keywords: []string{
					"symptom", "symptoms", "suffering", "i have", "i feel",
					"feeling", "sick", "unwell", "not feeling well",
				},
				WeakKeywords: []string{"pain", "ache", "problem", "doctor", "health"},
				Patterns: []string{
					`\b(fever|cough|headache|rash|nausea|vomiting|diarrhea|chills|dizzy|dizziness|sore throat|runny nose|stomach|breathing|breathless|fatigue|weakness)\b`,
					`\bwhat (disease|illness) do i have\b`,
				},
			},
			{
				Intent: models.IntentVaccinationQuery,
				Keywords: []string{
					"vaccine", "vaccines", "vaccination", "vaccinated",
					"immunization", "immunisation", "booster", "teeka", "tika",
				},
				WeakKeywords: []string{"dose", "injection", "shot"},
				Patterns: []string{
					`\b(bcg|dpt|opv|polio|measles|hepatitis)\b`,
					`\bwhen (should|do|does).*(vaccin|immuniz|immunis)`,
				},
			},
			{
				Intent: models.IntentDiseaseInfo,
				Keywords: []string{
					"what is", "tell me about", "information about",
					"prevention", "prevent", "treatment", "cure", "contagious",
				},
				WeakKeywords: []string{"disease", "illness", "infection", "about"},
				Patterns: []string{
					`\b(symptoms|signs|causes) of \w+`,
					`\bhow (does|do) \w+ spread\b`,
				},
			},
			{
				Intent: models.IntentOutbreakAlert,
				Keywords: []string{
					"outbreak", "outbreaks", "alert", "alerts", "epidemic",
					"advisory", "spreading",
				},
				WeakKeywords: []string{"cases", "area", "region", "city"},
				Patterns: []string{
					`\bany (outbreak|alert|epidemic)`,
					`\b(outbreak|cases|spreading) (in|near|around) \w+`,
				},
			},
			{
				Intent: models.IntentGreeting,
				Keywords: []string{
					"hello", "hi", "hey", "namaste", "namaskar", "vanakkam",
					"good morning", "good afternoon", "good evening",
					"how are you", "greetings", "start",
				},
			},
		},
		EmergencyPhrases: []string{
			"severe chest pain", "difficulty breathing", "cannot breathe",
			"can't breathe", "severe bleeding", "unconscious",
			"loss of consciousness", "not breathing", "heart attack",
			"stroke", "seizure", "suicide", "overdose", "severe burn",
			"choking", "emergency",
		},
		Synonyms: map[string]string{
			"temp":            "fever",
			"feverish":        "fever",
			"motions":         "diarrhea",
			"giddy":           "dizziness",
			"breathless":      "difficulty breathing",
			"short of breath": "difficulty breathing",
		},
	}
}
