package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// ResponseComposer turns a typed pipeline reply into user-facing text plus
// suggestion chips. Text is composed in English and localized through the
// language normalizer on the way out; canned phrases skip the translator.
type ResponseComposer struct {
	normalizer *LanguageNormalizer
}

func NewResponseComposer(normalizer *LanguageNormalizer) *ResponseComposer {
	return &ResponseComposer{normalizer: normalizer}
}

// Compose renders the reply in the given language.
func (c *ResponseComposer) Compose(ctx context.Context, reply models.ReplyContent, lang string) (string, []string) {
	switch r := reply.(type) {
	case models.GreetingReply:
		return c.composeGreeting(r, lang)
	case models.AssessmentReply:
		text, suggestions := c.composeAssessment(r.Result)
		localized, _ := c.normalizer.Localize(ctx, text, lang)
		return c.withDisclaimer(localized, lang), suggestions
	case models.InfoReply:
		text, suggestions := c.composeInfo(r)
		localized, _ := c.normalizer.Localize(ctx, text, lang)
		if infoCarriesDisclaimer(r.Topic) {
			localized = c.withDisclaimer(localized, lang)
		}
		return localized, suggestions
	case models.ClarificationReply:
		if r.PhraseKey != "" {
			return c.normalizer.Phrase(r.PhraseKey, lang), r.Suggestions
		}
		localized, _ := c.normalizer.Localize(ctx, r.Prompt, lang)
		return localized, r.Suggestions
	default:
		return c.normalizer.Phrase(PhraseFallback, lang), nil
	}
}

// withDisclaimer appends the medical disclaimer from the canned phrase
// table, so it stays in the user's language even when the translation
// backend is down.
func (c *ResponseComposer) withDisclaimer(text, lang string) string {
	return text + "\n\n⚠️ " + c.normalizer.Phrase(PhraseDisclaimer, lang)
}

// infoCarriesDisclaimer reports whether an info topic is health guidance
// that must carry the disclaimer. Schedule and alert listings are plain
// reference data.
func infoCarriesDisclaimer(topic models.InfoTopic) bool {
	return topic != models.InfoTopicVaccination && topic != models.InfoTopicAlerts
}

func (c *ResponseComposer) composeGreeting(r models.GreetingReply, lang string) (string, []string) {
	if !r.FirstTurn {
		return c.normalizer.Phrase(PhraseGreetingReturn, lang),
			[]string{"Check symptoms", "Vaccination schedule", "Outbreak alerts"}
	}
	text := c.normalizer.Phrase(PhraseGreeting, lang) + "\n\n" + c.normalizer.Phrase(PhraseHelp, lang)
	return text, []string{"Check symptoms", "Vaccination schedule", "Outbreak alerts"}
}

func (c *ResponseComposer) composeAssessment(result *models.AssessmentResult) (string, []string) {
	var b strings.Builder

	if result.Urgency == models.SeverityCritical && result.EmergencyNumber != "" {
		fmt.Fprintf(&b, "🚨 This may be a medical emergency. Call %s or go to the nearest emergency department immediately.\n\n",
			result.EmergencyNumber)
	}

	if len(result.MatchedSymptoms) > 0 {
		fmt.Fprintf(&b, "Based on your symptoms (%s):\n\n", strings.Join(result.MatchedSymptoms, ", "))
	}

	if len(result.Candidates) > 0 {
		b.WriteString("Possible conditions:\n")
		for _, cand := range result.Candidates {
			fmt.Fprintf(&b, "• %s (%s severity, %d%% symptom match)\n",
				cand.Name, cand.Severity, int(math.Round(cand.Score*100)))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Urgency level: %s\n\n", result.Urgency)

	if len(result.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "• %s\n", rec)
		}
		b.WriteString("\n")
	}
	if len(result.NextSteps) > 0 {
		b.WriteString("Next steps:\n")
		for _, step := range result.NextSteps {
			fmt.Fprintf(&b, "• %s\n", step)
		}
		b.WriteString("\n")
	}

	askDuration := result.DurationDays == 0 && len(result.Candidates) > 0 &&
		result.Urgency != models.SeverityCritical
	if askDuration {
		b.WriteString("How long have you had these symptoms?\n\n")
	}
	if result.NeedMoreInfo && len(result.MatchedSymptoms) > 0 {
		b.WriteString("Could you tell me more about how you are feeling?\n\n")
	}

	return strings.TrimRight(b.String(), "\n"), assessmentSuggestions(result, askDuration)
}

// assessmentSuggestions derives the quick replies from what the assessment
// is still missing.
func assessmentSuggestions(result *models.AssessmentResult, askDuration bool) []string {
	if result.NeedMoreInfo {
		return []string{"Fever", "Cough", "Headache"}
	}
	if askDuration {
		return []string{"Since 2 days", "Since a week"}
	}
	return []string{"Vaccination schedule", "Outbreak alerts"}
}

func (c *ResponseComposer) composeInfo(r models.InfoReply) (string, []string) {
	switch r.Topic {
	case models.InfoTopicDisease:
		return composeDisease(r.Disease)
	case models.InfoTopicVaccination:
		return composeVaccination(r.Schedules, r.AgeMonths)
	case models.InfoTopicAlerts:
		return composeAlerts(r.Alerts, r.Region)
	default:
		text := r.Answer
		if text == "" {
			text = "I do not have information on that yet."
		}
		return text, []string{"Check symptoms", "Vaccination schedule"}
	}
}

func composeDisease(d *models.Disease) (string, []string) {
	var b strings.Builder

	fmt.Fprintf(&b, "🦠 %s (%s severity)\n\n%s\n\n", d.Name, d.Severity, d.Description)
	fmt.Fprintf(&b, "Common symptoms: %s\n\n", strings.Join(d.Symptoms, ", "))
	if d.Prevention != "" {
		fmt.Fprintf(&b, "Prevention: %s\n\n", d.Prevention)
	}
	if d.Treatment != "" {
		fmt.Fprintf(&b, "Care: %s\n\n", d.Treatment)
	}
	if d.Contagious {
		b.WriteString("This disease can spread from person to person.\n\n")
	}

	return strings.TrimRight(b.String(), "\n"), []string{"Check symptoms", "Outbreak alerts"}
}

func composeVaccination(schedules []models.VaccinationSchedule, ageMonths int) (string, []string) {
	if len(schedules) == 0 {
		return "No vaccinations are due for that age in the standard immunization schedule.",
			[]string{"Vaccination schedule", "Check symptoms"}
	}

	var b strings.Builder
	switch {
	case ageMonths > 0:
		fmt.Fprintf(&b, "💉 Vaccinations from age %s onward:\n\n", formatAgeMonths(ageMonths))
	case len(schedules) == 1:
		fmt.Fprintf(&b, "💉 %s vaccination schedule:\n\n", schedules[0].Vaccine)
	default:
		b.WriteString("💉 Standard immunization schedule:\n\n")
	}
	for _, sched := range schedules {
		fmt.Fprintf(&b, "%s (protects against %s)\n", sched.Vaccine, strings.Join(sched.Protects, ", "))
		for _, dose := range sched.Doses {
			fmt.Fprintf(&b, "• %s: %s\n", dose.Label, formatDoseAge(dose.AgeMonths))
		}
		if sched.Notes != "" {
			b.WriteString(sched.Notes + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Please confirm the dates at your nearest health centre.")

	return b.String(), []string{"Check symptoms", "Outbreak alerts"}
}

func composeAlerts(alerts []models.OutbreakAlert, region string) (string, []string) {
	if len(alerts) == 0 {
		where := ""
		if region != "" && !strings.EqualFold(region, "all") {
			where = " for " + region
		}
		return fmt.Sprintf("No active disease outbreak alerts%s right now.", where),
			[]string{"Check symptoms", "Vaccination schedule"}
	}

	var b strings.Builder
	b.WriteString("📢 Active outbreak alerts:\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s %s in %s: %s (%s)\n\n",
			alertLevelEmoji(a.AlertLevel), a.Disease, a.Region, a.Message, a.IssuedAt.Format("2 Jan 2006"))
	}
	b.WriteString("Follow the advice of your local health authorities.")

	return b.String(), []string{"Check symptoms", "Vaccination schedule"}
}

func alertLevelEmoji(level models.Severity) string {
	switch level {
	case models.SeverityCritical, models.SeverityHigh:
		return "🔴"
	case models.SeverityModerate:
		return "🟠"
	default:
		return "🟡"
	}
}

func formatAgeMonths(months int) string {
	if months < 12 {
		return fmt.Sprintf("%d months", months)
	}
	if months%12 == 0 {
		years := months / 12
		if years == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", years)
	}
	return fmt.Sprintf("%d months", months)
}

func formatDoseAge(months int) string {
	if months == 0 {
		return "at birth"
	}
	return "at " + formatAgeMonths(months)
}
