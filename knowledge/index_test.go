package knowledge

import (
	"strings"
	"testing"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

func TestSeedDataLoads(t *testing.T) {
	idx, err := Load("")
	if err != nil {
		t.Fatalf("loading seed data: %v", err)
	}
	diseases, symptoms, vaccinations, alerts := idx.Counts()
	if diseases == 0 || symptoms == 0 || vaccinations == 0 || alerts == 0 {
		t.Fatalf("seed data has empty sections: %d/%d/%d/%d", diseases, symptoms, vaccinations, alerts)
	}
}

func TestDiseaseLookupIsCaseInsensitiveAndAliasAware(t *testing.T) {
	idx := mustSeedIndex(t)

	d, err := idx.Disease("COVID-19")
	if err != nil {
		t.Fatalf("exact name lookup: %v", err)
	}
	if d.Name != "COVID-19" {
		t.Errorf("got %q, want COVID-19", d.Name)
	}

	for _, alias := range []string{"covid", "Corona", "FLU"} {
		if _, err := idx.Disease(alias); err != nil {
			t.Errorf("alias %q not resolved: %v", alias, err)
		}
	}
}

func TestDiseaseLookupMiss(t *testing.T) {
	idx := mustSeedIndex(t)

	_, err := idx.Disease("ebola")
	if err == nil {
		t.Fatal("expected an error for an unknown disease")
	}
	if !models.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestCanonicalSymptomResolvesSynonyms(t *testing.T) {
	idx := mustSeedIndex(t)

	cases := map[string]string{
		"fever":        "fever",
		"Temperature":  "fever",
		"throwing up":  "vomiting",
		"Loose Motion": "diarrhea",
	}
	for phrase, want := range cases {
		got, ok := idx.CanonicalSymptom(phrase)
		if !ok {
			t.Errorf("phrase %q not recognized", phrase)
			continue
		}
		if got != want {
			t.Errorf("phrase %q resolved to %q, want %q", phrase, got, want)
		}
	}

	if _, ok := idx.CanonicalSymptom("happiness"); ok {
		t.Error("non-symptom phrase should not resolve")
	}
}

func TestPhrasesSortedLongestFirst(t *testing.T) {
	idx := mustSeedIndex(t)

	phrases := idx.Phrases()
	for i := 1; i < len(phrases); i++ {
		if len(phrases[i].Text) > len(phrases[i-1].Text) {
			t.Fatalf("phrase %q at %d is longer than its predecessor %q", phrases[i].Text, i, phrases[i-1].Text)
		}
	}
}

func TestVaccinationsForAgeDropsPastDoses(t *testing.T) {
	idx := mustSeedIndex(t)

	due := idx.VaccinationsForAge(9)
	for _, v := range due {
		if v.Vaccine == "BCG" {
			t.Error("BCG is due at birth only, not at 9 months")
		}
		for _, d := range v.Doses {
			if d.AgeMonths < 9 {
				t.Errorf("%s dose %q at %d months should have been trimmed", v.Vaccine, d.Label, d.AgeMonths)
			}
		}
	}

	var foundMeasles bool
	for _, v := range due {
		if v.Vaccine == "Measles" {
			foundMeasles = true
		}
	}
	if !foundMeasles {
		t.Error("measles schedule should still be due at 9 months")
	}
}

func TestConsistencyCheckRejectsDanglingReferences(t *testing.T) {
	f := File{
		Diseases: []models.Disease{{
			ID: "x", Name: "X", Severity: models.SeverityLow,
			Symptoms: []string{"no such symptom"},
		}},
	}
	if _, err := New(f); err == nil || !strings.Contains(err.Error(), "unknown symptom") {
		t.Errorf("expected unknown symptom error, got %v", err)
	}

	f = File{
		Symptoms: []models.Symptom{{
			Name: "itch", Severity: models.SeverityLow,
			RelatedDiseases: []string{"no such disease"},
		}},
	}
	if _, err := New(f); err == nil || !strings.Contains(err.Error(), "unknown disease") {
		t.Errorf("expected unknown disease error, got %v", err)
	}
}

func TestInvalidSeverityRejected(t *testing.T) {
	f := File{
		Symptoms: []models.Symptom{{Name: "itch", Severity: "terrible"}},
	}
	if _, err := New(f); err == nil {
		t.Fatal("expected invalid severity to fail the load")
	}
}

func TestConsistencyCheckRejectsOneWayReferences(t *testing.T) {
	f := File{
		Diseases: []models.Disease{{
			ID: "x", Name: "X", Severity: models.SeverityLow,
			Symptoms: []string{"itch"},
		}},
		Symptoms: []models.Symptom{{Name: "itch", Severity: models.SeverityLow}},
	}
	if _, err := New(f); err == nil || !strings.Contains(err.Error(), "does not list the disease back") {
		t.Errorf("expected a one-way disease reference to fail the load, got %v", err)
	}

	f = File{
		Diseases: []models.Disease{{ID: "x", Name: "X", Severity: models.SeverityLow}},
		Symptoms: []models.Symptom{{
			Name: "itch", Severity: models.SeverityLow,
			RelatedDiseases: []string{"X"},
		}},
	}
	if _, err := New(f); err == nil || !strings.Contains(err.Error(), "does not list the symptom back") {
		t.Errorf("expected a one-way symptom reference to fail the load, got %v", err)
	}
}

func TestConsistencyCheckResolvesAliases(t *testing.T) {
	// The back-reference may use a disease alias; the check resolves it
	// through the same lookup as user queries.
	f := File{
		Diseases: []models.Disease{{
			ID: "influenza", Name: "Influenza", Aliases: []string{"flu"},
			Severity: models.SeverityModerate, Symptoms: []string{"fever"},
		}},
		Symptoms: []models.Symptom{{
			Name: "fever", Severity: models.SeverityModerate,
			RelatedDiseases: []string{"flu"},
		}},
	}
	if _, err := New(f); err != nil {
		t.Errorf("alias back-reference rejected: %v", err)
	}
}

func mustSeedIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(SeedFile())
	if err != nil {
		t.Fatalf("building seed index: %v", err)
	}
	return idx
}
