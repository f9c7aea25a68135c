package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

// supportedLanguages holds the ISO 639-1 codes the bot can reply in.
var supportedLanguages = map[string]bool{
	"en": true, // English
	"hi": true, // Hindi
	"bn": true, // Bengali
	"te": true, // Telugu
	"ta": true, // Tamil
	"gu": true, // Gujarati
	"mr": true, // Marathi
	"kn": true, // Kannada
	"ml": true, // Malayalam
	"or": true, // Odia
	"pa": true, // Punjabi
	"ur": true, // Urdu
}

// scriptLanguages maps Unicode scripts to a language code. Marathi shares
// Devanagari with Hindi, so detection reports hi; Marathi users pass mr
// explicitly in the request.
var scriptLanguages = []struct {
	table *unicode.RangeTable
	lang  string
}{
	{unicode.Devanagari, "hi"},
	{unicode.Bengali, "bn"},
	{unicode.Telugu, "te"},
	{unicode.Tamil, "ta"},
	{unicode.Gujarati, "gu"},
	{unicode.Kannada, "kn"},
	{unicode.Malayalam, "ml"},
	{unicode.Oriya, "or"},
	{unicode.Gurmukhi, "pa"},
	{unicode.Arabic, "ur"},
}

// Canned phrase keys understood by LanguageNormalizer.Phrase.
const (
	PhraseGreeting        = "greeting"
	PhraseGreetingReturn  = "greeting_return"
	PhraseHelp            = "help"
	PhraseFallback        = "fallback"
	PhraseClarifySymptoms = "clarify_symptoms"
	PhraseDisclaimer      = "disclaimer"
)

// cannedPhrases are pre-translated strings that must stay available even
// when the translation backend is down. English is the fallback for every
// language without its own entry.
var cannedPhrases = map[string]map[string]string{
	PhraseGreeting: {
		"en": "Hello! I am your health assistant. I can help you check symptoms, look up vaccination schedules and see disease outbreak alerts for your area.",
		"hi": "नमस्ते! मैं आपका स्वास्थ्य सहायक हूं। मैं लक्षणों की जांच, टीकाकरण अनुसूची और आपके क्षेत्र की बीमारी चेतावनियों में मदद कर सकता हूं।",
	},
	PhraseGreetingReturn: {
		"en": "Welcome back! How can I help you today?",
		"hi": "फिर से स्वागत है! आज मैं आपकी कैसे मदद कर सकता हूं?",
	},
	PhraseHelp: {
		"en": "You can ask me things like:\n• \"I have fever and cough\"\n• \"Vaccination schedule for my baby\"\n• \"Any disease outbreak in Delhi?\"",
		"hi": "आप मुझसे पूछ सकते हैं:\n• \"मुझे बुखार और खांसी है\"\n• \"बच्चे का टीकाकरण कार्यक्रम\"\n• \"दिल्ली में कोई बीमारी फैली है?\"",
	},
	PhraseFallback: {
		"en": "Sorry, I could not process your message right now. Please try again in a moment.",
		"hi": "क्षमा करें, अभी आपका संदेश संसाधित नहीं हो सका। कृपया थोड़ी देर बाद फिर से कोशिश करें।",
	},
	PhraseClarifySymptoms: {
		"en": "I could not recognize any symptoms in your message. Please describe how you are feeling, for example \"I have fever and headache\".",
		"hi": "आपके संदेश में कोई लक्षण नहीं मिला। कृपया बताएं कि आप कैसा महसूस कर रहे हैं, जैसे \"मुझे बुखार और सिरदर्द है\"।",
	},
	PhraseDisclaimer: {
		"en": AssessmentDisclaimer,
		"hi": "यह आकलन केवल जानकारी के लिए है और पेशेवर चिकित्सा सलाह का विकल्प नहीं है।",
	},
}

// Translator converts text between two languages. Implementations must be
// safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// NormalizedMessage is the normalizer's view of one inbound message.
type NormalizedMessage struct {
	Text     string // English text the rest of the pipeline works on
	Language string // language replies should be rendered in
	Degraded bool   // translation was skipped or failed; Text is the original
}

// LanguageNormalizer detects the user's language and moves text in and out
// of English around the pipeline. With no translator configured it runs in
// pass-through mode and flags every non-English message as degraded.
type LanguageNormalizer struct {
	translator  Translator
	defaultLang string
}

func NewLanguageNormalizer(translator Translator, defaultLang string) *LanguageNormalizer {
	if !supportedLanguages[defaultLang] {
		defaultLang = "en"
	}
	return &LanguageNormalizer{
		translator:  translator,
		defaultLang: defaultLang,
	}
}

// SupportedLanguage reports whether the bot can reply in the given code.
func SupportedLanguage(code string) bool {
	return supportedLanguages[normalizeLanguageCode(code)]
}

// DetectLanguage guesses the language from the script of the message. Latin
// text (including romanized Hindi) reports English.
func (n *LanguageNormalizer) DetectLanguage(text string) string {
	counts := make(map[string]int)
	best := ""
	for _, r := range text {
		for _, s := range scriptLanguages {
			if unicode.Is(s.table, r) {
				counts[s.lang]++
				if best == "" || counts[s.lang] > counts[best] {
					best = s.lang
				}
				break
			}
		}
	}
	if best == "" {
		return "en"
	}
	return best
}

// ResolveLanguage picks the reply language for a message: an explicitly
// requested supported language wins, an unsupported request falls back to
// English, otherwise the script of the message decides.
func (n *LanguageNormalizer) ResolveLanguage(requested, text string) string {
	if requested != "" {
		code := normalizeLanguageCode(requested)
		if supportedLanguages[code] {
			return code
		}
		return "en"
	}
	if detected := n.DetectLanguage(text); detected != "en" {
		return detected
	}
	return n.defaultLang
}

// Normalize resolves the message language and translates the text to
// English for the pipeline. Translation failures degrade to pass-through
// instead of failing the turn.
func (n *LanguageNormalizer) Normalize(ctx context.Context, message, requested string) NormalizedMessage {
	lang := n.ResolveLanguage(requested, message)
	if lang == "en" {
		return NormalizedMessage{Text: message, Language: "en"}
	}
	if n.translator == nil {
		return NormalizedMessage{Text: message, Language: lang, Degraded: true}
	}

	translated, err := n.translator.Translate(ctx, message, lang, "en")
	if err != nil {
		log.Printf("Translation to English failed, continuing with original text: %v", err)
		return NormalizedMessage{Text: message, Language: lang, Degraded: true}
	}
	return NormalizedMessage{Text: translated, Language: lang}
}

// Localize renders pipeline output in the user's language. English input
// passes through; failures fall back to the English text and report
// degraded mode.
func (n *LanguageNormalizer) Localize(ctx context.Context, text, lang string) (string, bool) {
	if lang == "" || lang == "en" || text == "" {
		return text, false
	}
	if n.translator == nil {
		return text, true
	}

	translated, err := n.translator.Translate(ctx, text, "en", lang)
	if err != nil {
		log.Printf("Translation to %s failed, replying in English: %v", lang, err)
		return text, true
	}
	return translated, false
}

// Phrase returns a canned string in the given language, falling back to
// English. Canned phrases never require the translation backend.
func (n *LanguageNormalizer) Phrase(key, lang string) string {
	byLang, ok := cannedPhrases[key]
	if !ok {
		return ""
	}
	if text, ok := byLang[normalizeLanguageCode(lang)]; ok {
		return text
	}
	return byLang["en"]
}

func normalizeLanguageCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	// Strip a region suffix such as hi-IN or pa_IN.
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}

// HTTPTranslator calls a LibreTranslate-compatible endpoint.
type HTTPTranslator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewTranslator builds the HTTP translator from config. It returns nil when
// no endpoint is configured, which puts the normalizer in pass-through mode.
func NewTranslator(cfg config.TranslationConfig) Translator {
	if cfg.Endpoint == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPTranslator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: from,
		Target: to,
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTranslationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", models.ErrTranslationUnavailable, resp.StatusCode, body)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if out.TranslatedText == "" {
		return "", models.ErrTranslationUnavailable
	}
	return out.TranslatedText, nil
}
