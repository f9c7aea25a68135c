package utils

import (
	"testing"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

func newTestClassifier(t *testing.T) *IntentClassifier {
	t.Helper()
	ic, err := NewIntentClassifier(DefaultRules())
	if err != nil {
		t.Fatalf("building classifier: %v", err)
	}
	return ic
}

func TestClassifySymptomQuery(t *testing.T) {
	ic := newTestClassifier(t)

	c := ic.Classify("I have fever and cough", models.IntentUnknown)
	if c.Intent != models.IntentSymptomQuery {
		t.Fatalf("intent = %s, want symptom_query", c.Intent)
	}
	if c.Confidence < ConfidenceThreshold || c.Confidence > 1 {
		t.Errorf("confidence %v out of expected range", c.Confidence)
	}
	if c.Emergency {
		t.Error("fever and cough should not flag an emergency")
	}
}

func TestClassifyEmergencyPhrase(t *testing.T) {
	ic := newTestClassifier(t)

	c := ic.Classify("My father has severe chest pain", models.IntentUnknown)
	if c.Intent != models.IntentSymptomQuery {
		t.Fatalf("intent = %s, want symptom_query", c.Intent)
	}
	if !c.Emergency {
		t.Error("severe chest pain must set the emergency flag")
	}
	if c.Confidence < 0.9 {
		t.Errorf("emergency confidence %v too low", c.Confidence)
	}
}

func TestClassifyUnknownBelowThreshold(t *testing.T) {
	ic := newTestClassifier(t)

	// "doctor" is weak evidence only; it must stay under the threshold.
	c := ic.Classify("need doctor", models.IntentUnknown)
	if c.Intent != models.IntentUnknown {
		t.Fatalf("intent = %s, want unknown", c.Intent)
	}
	if c.Confidence >= ConfidenceThreshold {
		t.Errorf("confidence %v should be below the threshold", c.Confidence)
	}

	c = ic.Classify("completely unrelated text", models.IntentUnknown)
	if c.Intent != models.IntentUnknown || c.Confidence != 0 {
		t.Errorf("got %s/%v, want unknown with zero confidence", c.Intent, c.Confidence)
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	ic := newTestClassifier(t)

	c := ic.Classify("   ", models.IntentUnknown)
	if c.Intent != models.IntentUnknown {
		t.Errorf("blank message classified as %s", c.Intent)
	}
}

func TestTieBreakPrefersPreviousIntent(t *testing.T) {
	ic := newTestClassifier(t)

	// Equal evidence for disease_info and symptom_query; session history
	// decides.
	msg := "what are the symptoms of dengue"
	c := ic.Classify(msg, models.IntentDiseaseInfo)
	if c.Intent != models.IntentDiseaseInfo {
		t.Errorf("with disease_info history got %s", c.Intent)
	}

	c = ic.Classify(msg, models.IntentUnknown)
	if c.Intent != models.IntentSymptomQuery {
		t.Errorf("without history ties should fall to symptom_query, got %s", c.Intent)
	}
}

func TestGreetingDoesNotMatchInsideWords(t *testing.T) {
	ic := newTestClassifier(t)

	// "hi" must only match as a word, never inside "this".
	c := ic.Classify("this vaccination schedule", models.IntentUnknown)
	if c.Intent != models.IntentVaccinationQuery {
		t.Errorf("got %s, want vaccination_query", c.Intent)
	}
}

func TestBadPatternRejected(t *testing.T) {
	rs := RuleSet{Rules: []IntentRule{{
		Intent:   models.IntentGreeting,
		Patterns: []string{"("},
	}}}
	if _, err := NewIntentClassifier(rs); err == nil {
		t.Fatal("expected a compile error for an invalid pattern")
	}
}

// labeledMessage pairs a user message with its true intent for the
// accuracy measurement below.
type labeledMessage struct {
	text string
	want models.MessageIntent
}

var accuracyCorpus = []labeledMessage{
	{"I have fever and cough", models.IntentSymptomQuery},
	{"I am feeling very sick", models.IntentSymptomQuery},
	{"my child has rash and vomiting", models.IntentSymptomQuery},
	{"suffering from headache", models.IntentSymptomQuery},
	{"my stomach hurts badly", models.IntentSymptomQuery},
	{"I feel pain in my joints", models.IntentSymptomQuery},
	{"I have severe chest pain", models.IntentSymptomQuery},
	{"difficulty breathing since morning", models.IntentSymptomQuery},
	{"what are the symptoms of dengue", models.IntentDiseaseInfo},
	{"what is dengue", models.IntentDiseaseInfo},
	{"tell me about malaria", models.IntentDiseaseInfo},
	{"how does typhoid spread", models.IntentDiseaseInfo},
	{"prevention of covid", models.IntentDiseaseInfo},
	{"when should my baby get polio vaccine", models.IntentVaccinationQuery},
	{"vaccination schedule for 6 month old", models.IntentVaccinationQuery},
	{"which vaccines does my child need", models.IntentVaccinationQuery},
	{"bcg dose", models.IntentVaccinationQuery},
	{"is there any outbreak in my city", models.IntentOutbreakAlert},
	{"dengue alert in delhi", models.IntentOutbreakAlert},
	{"any health advisory for mumbai", models.IntentOutbreakAlert},
	{"hello", models.IntentGreeting},
	{"hi there", models.IntentGreeting},
	{"good morning", models.IntentGreeting},
	{"namaste", models.IntentGreeting},
	{"need doctor help", models.IntentSymptomQuery},
	{"asdf qwerty", models.IntentUnknown},
	{"what's the weather today", models.IntentUnknown},
}

// The classifier must reach at least 80% on the labeled corpus. Individual
// misses are tolerated; a drop below the bar is a regression.
func TestClassifierAccuracy(t *testing.T) {
	ic := newTestClassifier(t)

	correct := 0
	for _, lm := range accuracyCorpus {
		c := ic.Classify(lm.text, models.IntentUnknown)
		if c.Intent == lm.want {
			correct++
		} else {
			t.Logf("miss: %q classified as %s, labeled %s", lm.text, c.Intent, lm.want)
		}
	}

	accuracy := float64(correct) / float64(len(accuracyCorpus))
	if accuracy < 0.8 {
		t.Errorf("accuracy %.2f below the 0.80 bar (%d/%d)", accuracy, correct, len(accuracyCorpus))
	}
}
