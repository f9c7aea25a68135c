package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[!?.,;:"'()\[\]{}]+`)

	durationDaysRe  = regexp.MustCompile(`(\d+)\s*(?:days?|din)\b`)
	durationWeeksRe = regexp.MustCompile(`(\d+)\s*(?:weeks?|hafte|hafta)\b`)
	// "months" needs a leading preposition so "6 months old" stays an age.
	durationMonthsRe = regexp.MustCompile(`\b(?:for|since|past|last)\s+(\d+)\s*months?\b`)
	aWeekRe          = regexp.MustCompile(`\b(?:a|one|past|last)\s+week\b`)
	aMonthRe         = regexp.MustCompile(`\b(?:a|one|past|last)\s+month\b`)
	yesterdayRe      = regexp.MustCompile(`\byesterday\b`)

	ageYearsRe  = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?|saal)(?:\s+old)?\b`)
	ageMonthsRe = regexp.MustCompile(`(\d+)\s*months?\s+old\b`)
	iAmAgeRe    = regexp.MustCompile(`\bi\s*am\s+(\d+)\b`)
)

// NormalizeText lowercases, strips punctuation and collapses whitespace.
// All matching in the pipeline runs over normalized text.
func NormalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ContainsPhrase reports whether the normalized text contains the phrase
// on word boundaries, so "hi" does not match inside "this".
func ContainsPhrase(normalized, phrase string) bool {
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}

// ExtractDurationDays pulls a symptom duration out of free text, in days.
// Returns 0, false when no duration is mentioned.
func ExtractDurationDays(text string) (int, bool) {
	text = NormalizeText(text)

	if m := durationDaysRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := durationWeeksRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 7, true
	}
	if m := durationMonthsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 30, true
	}
	if aWeekRe.MatchString(text) {
		return 7, true
	}
	if aMonthRe.MatchString(text) {
		return 30, true
	}
	if yesterdayRe.MatchString(text) {
		return 1, true
	}
	return 0, false
}

// ExtractAgeMonths pulls an age out of free text, in months. "6 months old"
// is taken as-is; year phrasings are converted. Returns 0, false when no
// age is mentioned.
func ExtractAgeMonths(text string) (int, bool) {
	text = NormalizeText(text)

	if m := ageMonthsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := ageYearsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 12, true
	}
	if m := iAmAgeRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 12, true
	}
	return 0, false
}

// ExtractAgeYears is ExtractAgeMonths rounded down to whole years.
func ExtractAgeYears(text string) (int, bool) {
	months, ok := ExtractAgeMonths(text)
	if !ok {
		return 0, false
	}
	return months / 12, true
}
