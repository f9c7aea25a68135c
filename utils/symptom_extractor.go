package utils

import (
	"sort"
	"strings"

	"github.com/Shubh1hulk/SIH-Demo/knowledge"
)

// Extraction is everything the extractor pulls from one message. Absent
// attributes stay zero; they are never errors.
type Extraction struct {
	Symptoms     []string // canonical names, deduplicated, in order of appearance
	DurationDays int
	AgeMonths    int
}

func (e Extraction) AgeYears() int {
	return e.AgeMonths / 12
}

// SymptomExtractor matches messages against the knowledge base symptom
// vocabulary plus the configured synonym table.
type SymptomExtractor struct {
	phrases []knowledge.Phrase // longest first
}

// NewSymptomExtractor merges the index vocabulary with extra synonyms.
// On phrase collisions the knowledge base entry wins.
func NewSymptomExtractor(idx *knowledge.Index, synonyms map[string]string) *SymptomExtractor {
	seen := make(map[string]bool)
	var phrases []knowledge.Phrase
	for _, p := range idx.Phrases() {
		if !seen[p.Text] {
			seen[p.Text] = true
			phrases = append(phrases, p)
		}
	}
	for phrase, canonical := range synonyms {
		key := NormalizeText(phrase)
		if key == "" || seen[key] {
			continue
		}
		// Synonyms must still resolve to a canonical knowledge base name.
		name, ok := idx.CanonicalSymptom(canonical)
		if !ok {
			continue
		}
		seen[key] = true
		phrases = append(phrases, knowledge.Phrase{Text: key, Canonical: name})
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].Text) > len(phrases[j].Text)
	})

	return &SymptomExtractor{phrases: phrases}
}

// Extract finds every known symptom phrase in the message. Longer phrases
// are matched first and consume their text, so "sore throat" never also
// yields a match for a shorter phrase inside it.
func (se *SymptomExtractor) Extract(message string) Extraction {
	normalized := NormalizeText(message)
	if normalized == "" {
		return Extraction{}
	}

	type hit struct {
		pos  int
		name string
	}

	work := []byte(" " + normalized + " ")
	firstPos := make(map[string]int)
	for _, p := range se.phrases {
		needle := " " + p.Text + " "
		for {
			i := strings.Index(string(work), needle)
			if i < 0 {
				break
			}
			if prev, ok := firstPos[p.Canonical]; !ok || i < prev {
				firstPos[p.Canonical] = i
			}
			// Blank the span with spaces so shorter phrases cannot
			// rematch it; positions stay stable.
			for j := i + 1; j < i+1+len(p.Text); j++ {
				work[j] = ' '
			}
		}
	}

	hits := make([]hit, 0, len(firstPos))
	for name, pos := range firstPos {
		hits = append(hits, hit{pos: pos, name: name})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	ex := Extraction{}
	for _, h := range hits {
		ex.Symptoms = append(ex.Symptoms, h.name)
	}
	if days, ok := ExtractDurationDays(message); ok {
		ex.DurationDays = days
	}
	if months, ok := ExtractAgeMonths(message); ok {
		ex.AgeMonths = months
	}
	return ex
}
