package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/utils"
)

// ChatbotService runs the message pipeline for every channel: normalize
// language, classify intent, extract symptoms, route, compose the reply.
type ChatbotService struct {
	idx        *knowledge.Index
	normalizer *LanguageNormalizer
	classifier *utils.IntentClassifier
	extractor  *utils.SymptomExtractor
	assessor   *AssessmentService
	composer   *ResponseComposer
	aiService  *AIService
	alerts     *AlertService
	reports    *ReportService
	sessions   *database.SessionStore
	store      database.ConversationStore
	timeout    time.Duration
}

func NewChatbotService(
	idx *knowledge.Index,
	normalizer *LanguageNormalizer,
	rules utils.RuleSet,
	aiService *AIService,
	alerts *AlertService,
	reports *ReportService,
	sessions *database.SessionStore,
	store database.ConversationStore,
	chatCfg config.ChatConfig,
) (*ChatbotService, error) {
	classifier, err := utils.NewIntentClassifier(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build intent classifier: %w", err)
	}

	timeout := chatCfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &ChatbotService{
		idx:        idx,
		normalizer: normalizer,
		classifier: classifier,
		extractor:  utils.NewSymptomExtractor(idx, rules.Synonyms),
		assessor:   NewAssessmentService(idx, rules.EmergencyPhrases, chatCfg.EmergencyNumber),
		composer:   NewResponseComposer(normalizer),
		aiService:  aiService,
		alerts:     alerts,
		reports:    reports,
		sessions:   sessions,
		store:      store,
		timeout:    timeout,
	}, nil
}

// ProcessMessage runs one chat turn under the configured time budget. On
// expiry the user gets the canned fallback reply and the in-flight turn is
// cancelled in the background.
func (s *ChatbotService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.Channel == "" {
		req.Channel = models.ChannelWeb
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type turnResult struct {
		resp *models.ChatResponse
		err  error
	}
	done := make(chan turnResult, 1)
	go func() {
		resp, err := s.processTurn(ctx, req)
		done <- turnResult{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		log.Printf("Chat turn for session %s exceeded %s, returning fallback", req.SessionID, s.timeout)
		return s.fallbackResponse(req), nil
	}
}

// Assess runs a structured assessment outside the chat pipeline and keeps
// the result available for report export. Bare clarifications, where nothing
// was recognized, have no report content and are not retained.
func (s *ChatbotService) Assess(req models.AssessmentRequest) *models.AssessmentResult {
	result := s.assessor.Assess(req)
	if !result.NeedMoreInfo || len(result.MatchedSymptoms) > 0 {
		s.reports.Save(result)
	}
	return result
}

func (s *ChatbotService) processTurn(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	session, release := s.sessions.Acquire(req.SessionID, req.Channel)
	defer release()

	norm := s.normalizer.Normalize(ctx, req.Message, req.Language)
	session.Language = norm.Language
	session.LowConfidence = norm.Degraded
	if req.UserID != "" {
		session.UserID = req.UserID
	}

	cls := s.classifier.Classify(norm.Text, session.LastIntent)
	ext := s.extractor.Extract(norm.Text)

	intent := cls.Intent
	if intent == models.IntentUnknown {
		// No rule matched, but the message names symptoms, or adds a
		// duration to symptoms from earlier turns. Treat it as a symptom
		// report so follow-ups like "since 2 days" keep working.
		if len(ext.Symptoms) > 0 || (ext.DurationDays > 0 && len(session.Symptoms) > 0) {
			intent = models.IntentSymptomQuery
		}
	}

	var (
		reply      models.ReplyContent
		assessment *models.AssessmentResult
		data       map[string]any
	)

	switch intent {
	case models.IntentSymptomQuery:
		reply, assessment = s.handleAssessment(session, norm, ext)
	case models.IntentVaccinationQuery:
		reply, data = s.handleVaccination(norm, ext)
	case models.IntentDiseaseInfo:
		reply, data = s.handleDiseaseInfo(ctx, norm)
	case models.IntentOutbreakAlert:
		reply, data = s.handleOutbreakAlerts(norm)
	case models.IntentGreeting:
		reply = models.GreetingReply{FirstTurn: session.TurnCount == 0}
	default:
		reply = s.handleUnknown(ctx, norm)
	}

	text, suggestions := s.composer.Compose(ctx, reply, norm.Language)

	session.LastIntent = intent
	session.LastConfidence = cls.Confidence
	session.TurnCount++

	resp := &models.ChatResponse{
		Response:    text,
		SessionID:   session.ID,
		Intent:      intent,
		Confidence:  cls.Confidence,
		Language:    norm.Language,
		Suggestions: suggestions,
		Assessment:  assessment,
		Data:        data,
	}

	rec := models.ConversationRecord{
		ID:         uuid.NewString(),
		SessionID:  session.ID,
		UserID:     req.UserID,
		Channel:    session.Channel,
		Language:   norm.Language,
		MessageIn:  req.Message,
		MessageOut: text,
		Intent:     intent,
		Confidence: cls.Confidence,
		CreatedAt:  time.Now(),
	}
	if assessment != nil {
		rec.Urgency = assessment.Urgency
	}
	if err := s.store.Log(ctx, rec); err != nil {
		log.Printf("Failed to log conversation turn: %v", err)
	}

	return resp, nil
}

func (s *ChatbotService) handleAssessment(session *models.ChatSession, norm NormalizedMessage, ext utils.Extraction) (models.ReplyContent, *models.AssessmentResult) {
	session.RememberSymptoms(ext.Symptoms)

	result := s.assessor.Assess(models.AssessmentRequest{
		Symptoms:     session.Symptoms,
		RawMessage:   norm.Text,
		DurationDays: ext.DurationDays,
		AgeYears:     ext.AgeYears(),
		Language:     norm.Language,
	})

	if result.NeedMoreInfo && len(result.MatchedSymptoms) == 0 {
		return models.ClarificationReply{
			PhraseKey:   PhraseClarifySymptoms,
			Suggestions: []string{"Fever", "Cough", "Headache"},
		}, result
	}

	s.reports.Save(result)
	return models.AssessmentReply{Result: result}, result
}

func (s *ChatbotService) handleVaccination(norm NormalizedMessage, ext utils.Extraction) (models.ReplyContent, map[string]any) {
	if v := s.findVaccine(utils.NormalizeText(norm.Text)); v != nil {
		schedules := []models.VaccinationSchedule{*v}
		return models.InfoReply{
			Topic:     models.InfoTopicVaccination,
			Schedules: schedules,
		}, map[string]any{"schedules": schedules}
	}

	schedules := s.idx.Vaccinations()
	if ext.AgeMonths > 0 {
		schedules = s.idx.VaccinationsForAge(ext.AgeMonths)
	}

	data := map[string]any{"schedules": schedules}
	if ext.AgeMonths > 0 {
		data["age_months"] = ext.AgeMonths
	}
	return models.InfoReply{
		Topic:     models.InfoTopicVaccination,
		Schedules: schedules,
		AgeMonths: ext.AgeMonths,
	}, data
}

func (s *ChatbotService) handleDiseaseInfo(ctx context.Context, norm NormalizedMessage) (models.ReplyContent, map[string]any) {
	d := s.findDisease(utils.NormalizeText(norm.Text))
	if d == nil {
		// The knowledge base does not cover this disease. Let the AI
		// answer service take a shot before asking the user to rephrase.
		if s.aiService.Enabled() {
			answer, err := s.aiService.GeneralAnswer(ctx, norm.Text)
			if err != nil {
				log.Printf("AI answer failed, asking for a known disease instead: %v", err)
			} else if answer != "" {
				return models.InfoReply{Topic: models.InfoTopicGeneral, Answer: answer}, nil
			}
		}
		names := s.diseaseNames(3)
		return models.ClarificationReply{
			Prompt:      "Which disease would you like to know about? For example: " + strings.Join(names, ", ") + ".",
			Suggestions: names,
		}, nil
	}
	return models.InfoReply{Topic: models.InfoTopicDisease, Disease: d},
		map[string]any{"disease": d}
}

func (s *ChatbotService) handleOutbreakAlerts(norm NormalizedMessage) (models.ReplyContent, map[string]any) {
	region := s.alerts.MatchRegion(utils.NormalizeText(norm.Text))
	active := s.alerts.ActiveByRegion(region)

	data := map[string]any{"alerts": active}
	if region != "" {
		data["region"] = region
	}
	return models.InfoReply{
		Topic:  models.InfoTopicAlerts,
		Alerts: active,
		Region: region,
	}, data
}

func (s *ChatbotService) handleUnknown(ctx context.Context, norm NormalizedMessage) models.ReplyContent {
	if s.aiService.Enabled() {
		answer, err := s.aiService.GeneralAnswer(ctx, norm.Text)
		if err != nil {
			log.Printf("AI answer failed, using canned help: %v", err)
		} else if answer != "" {
			return models.InfoReply{Topic: models.InfoTopicGeneral, Answer: answer}
		}
	}
	return models.ClarificationReply{
		PhraseKey:   PhraseHelp,
		Suggestions: []string{"Check symptoms", "Vaccination schedule", "Outbreak alerts"},
	}
}

// findVaccine looks for a vaccination schedule named in the message, by
// vaccine name or by a disease it protects against ("polio" matches OPV).
func (s *ChatbotService) findVaccine(normalized string) *models.VaccinationSchedule {
	for _, v := range s.idx.Vaccinations() {
		if utils.ContainsPhrase(normalized, utils.NormalizeText(v.Vaccine)) {
			match := v
			return &match
		}
		for _, p := range v.Protects {
			if utils.ContainsPhrase(normalized, utils.NormalizeText(p)) {
				match := v
				return &match
			}
		}
	}
	return nil
}

// findDisease looks for a knowledge base disease named in the message, by
// name or alias.
func (s *ChatbotService) findDisease(normalized string) *models.Disease {
	for _, d := range s.idx.Diseases() {
		if utils.ContainsPhrase(normalized, strings.ToLower(d.Name)) {
			match := d
			return &match
		}
		for _, alias := range d.Aliases {
			if utils.ContainsPhrase(normalized, strings.ToLower(alias)) {
				match := d
				return &match
			}
		}
	}
	return nil
}

func (s *ChatbotService) diseaseNames(limit int) []string {
	var names []string
	for _, d := range s.idx.Diseases() {
		names = append(names, d.Name)
		if len(names) == limit {
			break
		}
	}
	return names
}

func (s *ChatbotService) fallbackResponse(req models.ChatRequest) *models.ChatResponse {
	lang := s.normalizer.ResolveLanguage(req.Language, req.Message)
	return &models.ChatResponse{
		Response:  s.normalizer.Phrase(PhraseFallback, lang),
		SessionID: req.SessionID,
		Intent:    models.IntentUnknown,
		Language:  lang,
	}
}
