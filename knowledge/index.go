package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// File is the on-disk JSON shape of a knowledge base.
type File struct {
	Diseases     []models.Disease             `json:"diseases"`
	Symptoms     []models.Symptom             `json:"symptoms"`
	Vaccinations []models.VaccinationSchedule `json:"vaccinations"`
	Alerts       []models.OutbreakAlert       `json:"alerts"`
}

// Phrase maps one recognizable symptom phrase (a canonical name or a
// synonym) to its canonical symptom name.
type Phrase struct {
	Text      string
	Canonical string
}

// Index is the read-only knowledge base. It is built once at startup and
// never mutated afterwards, so all lookups are safe for concurrent use
// without locking.
type Index struct {
	diseases     []models.Disease
	symptoms     []models.Symptom
	vaccinations []models.VaccinationSchedule
	alerts       []models.OutbreakAlert

	diseaseByKey map[string]*models.Disease // lower-cased names and aliases
	symptomByKey map[string]*models.Symptom // lower-cased canonical names
	phraseByKey  map[string]string          // lower-cased phrase -> canonical name
	phrases      []Phrase                   // names + synonyms, longest first
}

// Load builds the index from the JSON file at path, or from the built-in
// seed data when path is empty.
func Load(path string) (*Index, error) {
	if path == "" {
		return New(SeedFile())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}

	return New(f)
}

// New validates the data set and builds the lookup structures. Any
// consistency violation fails the whole load; a partially valid knowledge
// base never serves traffic.
func New(f File) (*Index, error) {
	idx := &Index{
		diseases:     f.Diseases,
		symptoms:     f.Symptoms,
		vaccinations: f.Vaccinations,
		alerts:       f.Alerts,
		diseaseByKey: make(map[string]*models.Disease),
		symptomByKey: make(map[string]*models.Symptom),
		phraseByKey:  make(map[string]string),
	}

	for i := range idx.symptoms {
		s := &idx.symptoms[i]
		if s.Name == "" {
			return nil, fmt.Errorf("symptom %d has no name", i)
		}
		if !s.Severity.Valid() {
			return nil, fmt.Errorf("symptom %q has invalid severity %q", s.Name, s.Severity)
		}
		key := normalizeKey(s.Name)
		if _, dup := idx.symptomByKey[key]; dup {
			return nil, fmt.Errorf("duplicate symptom %q", s.Name)
		}
		idx.symptomByKey[key] = s

		idx.addPhrase(key, s.Name)
		for _, syn := range s.Synonyms {
			idx.addPhrase(normalizeKey(syn), s.Name)
		}
	}

	for i := range idx.diseases {
		d := &idx.diseases[i]
		if d.Name == "" {
			return nil, fmt.Errorf("disease %d has no name", i)
		}
		if !d.Severity.Valid() {
			return nil, fmt.Errorf("disease %q has invalid severity %q", d.Name, d.Severity)
		}
		for _, key := range append([]string{d.Name}, d.Aliases...) {
			k := normalizeKey(key)
			if _, dup := idx.diseaseByKey[k]; dup {
				return nil, fmt.Errorf("duplicate disease name or alias %q", key)
			}
			idx.diseaseByKey[k] = d
		}
	}

	if err := idx.checkConsistency(); err != nil {
		return nil, err
	}

	// Longest phrase first so multi-word symptoms win over their
	// substrings during extraction.
	sort.SliceStable(idx.phrases, func(i, j int) bool {
		return len(idx.phrases[i].Text) > len(idx.phrases[j].Text)
	})

	return idx, nil
}

// checkConsistency enforces the disease/symptom cross-reference invariant:
// every name on either side must resolve, and the references must be
// mutual. A disease listing a symptom must be listed back by that symptom,
// and the other way round.
func (idx *Index) checkConsistency() error {
	for i := range idx.diseases {
		d := &idx.diseases[i]
		for _, name := range d.Symptoms {
			s, ok := idx.symptomByKey[normalizeKey(name)]
			if !ok {
				return fmt.Errorf("disease %q references unknown symptom %q", d.Name, name)
			}
			if !refersToDisease(idx, s, d) {
				return fmt.Errorf("disease %q lists symptom %q, which does not list the disease back", d.Name, name)
			}
		}
	}
	for i := range idx.symptoms {
		s := &idx.symptoms[i]
		for _, name := range s.RelatedDiseases {
			d, ok := idx.diseaseByKey[normalizeKey(name)]
			if !ok {
				return fmt.Errorf("symptom %q references unknown disease %q", s.Name, name)
			}
			if !refersToSymptom(idx, d, s) {
				return fmt.Errorf("symptom %q lists disease %q, which does not list the symptom back", s.Name, name)
			}
		}
	}
	return nil
}

// refersToDisease resolves the symptom's related-disease names through the
// lookup map, so aliases and case differences still count as a match.
func refersToDisease(idx *Index, s *models.Symptom, d *models.Disease) bool {
	for _, name := range s.RelatedDiseases {
		if idx.diseaseByKey[normalizeKey(name)] == d {
			return true
		}
	}
	return false
}

func refersToSymptom(idx *Index, d *models.Disease, s *models.Symptom) bool {
	for _, name := range d.Symptoms {
		if idx.symptomByKey[normalizeKey(name)] == s {
			return true
		}
	}
	return false
}

// Disease looks up a disease by name or alias, case-insensitively.
func (idx *Index) Disease(name string) (*models.Disease, error) {
	if d, ok := idx.diseaseByKey[normalizeKey(name)]; ok {
		return d, nil
	}
	return nil, models.NewNotFoundError("disease", name)
}

// Symptom looks up a symptom by canonical name, case-insensitively.
func (idx *Index) Symptom(name string) (*models.Symptom, error) {
	if s, ok := idx.symptomByKey[normalizeKey(name)]; ok {
		return s, nil
	}
	return nil, models.NewNotFoundError("symptom", name)
}

// CanonicalSymptom resolves a phrase (canonical name or synonym) to the
// canonical symptom name.
func (idx *Index) CanonicalSymptom(phrase string) (string, bool) {
	name, ok := idx.phraseByKey[normalizeKey(phrase)]
	return name, ok
}

func (idx *Index) addPhrase(key, canonical string) {
	if _, exists := idx.phraseByKey[key]; exists {
		return
	}
	idx.phraseByKey[key] = canonical
	idx.phrases = append(idx.phrases, Phrase{Text: key, Canonical: canonical})
}

// Phrases returns every recognizable symptom phrase, longest first. The
// slice is shared; callers must not modify it.
func (idx *Index) Phrases() []Phrase {
	return idx.phrases
}

// Diseases returns all diseases. The slice is shared; callers must not
// modify it.
func (idx *Index) Diseases() []models.Disease {
	return idx.diseases
}

// Vaccinations returns the full immunization schedule.
func (idx *Index) Vaccinations() []models.VaccinationSchedule {
	return idx.vaccinations
}

// VaccinationsForAge returns schedules trimmed to the doses due at or
// after the given age in months. Schedules with nothing left are dropped.
func (idx *Index) VaccinationsForAge(ageMonths int) []models.VaccinationSchedule {
	var out []models.VaccinationSchedule
	for _, v := range idx.vaccinations {
		var due []models.VaccineDose
		for _, d := range v.Doses {
			if d.AgeMonths >= ageMonths {
				due = append(due, d)
			}
		}
		if len(due) > 0 {
			trimmed := v
			trimmed.Doses = due
			out = append(out, trimmed)
		}
	}
	return out
}

// Vaccination looks up one schedule by vaccine name, case-insensitively.
func (idx *Index) Vaccination(vaccine string) (*models.VaccinationSchedule, error) {
	key := normalizeKey(vaccine)
	for i := range idx.vaccinations {
		if normalizeKey(idx.vaccinations[i].Vaccine) == key {
			return &idx.vaccinations[i], nil
		}
	}
	return nil, models.NewNotFoundError("vaccination schedule", vaccine)
}

// SeedAlerts returns the alerts shipped with the knowledge base. Live
// alert state is layered on top by the alert service.
func (idx *Index) SeedAlerts() []models.OutbreakAlert {
	return idx.alerts
}

// Counts reports the size of each section, for health reporting.
func (idx *Index) Counts() (diseases, symptoms, vaccinations, alerts int) {
	return len(idx.diseases), len(idx.symptoms), len(idx.vaccinations), len(idx.alerts)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
