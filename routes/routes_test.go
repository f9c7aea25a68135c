package routes

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/services"
	"github.com/Shubh1hulk/SIH-Demo/utils"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:        "0",
		Environment: "test",
		Database:    config.DatabaseConfig{Type: "memory"},
		Chat: config.ChatConfig{
			RequestTimeout:  2 * time.Second,
			SessionTTL:      time.Hour,
			SessionSweep:    time.Hour,
			DefaultLanguage: "en",
			EmergencyNumber: "108",
			HighConfidence:  0.8,
		},
		WhatsApp: config.WhatsAppConfig{
			VerifyToken:        "verify-secret",
			DefaultCountryCode: "91",
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	idx, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}

	store, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}

	sessions := database.NewSessionStore(cfg.Chat.SessionTTL, cfg.Chat.SessionSweep)
	t.Cleanup(sessions.Stop)

	normalizer := services.NewLanguageNormalizer(nil, cfg.Chat.DefaultLanguage)
	alerts := services.NewAlertService(idx, database.NewSubscriptionStore(), normalizer, nil, cfg.Alerts, cfg.WhatsApp.DefaultCountryCode)
	reports := services.NewReportService()

	chatbot, err := services.NewChatbotService(
		idx,
		normalizer,
		utils.DefaultRules(),
		services.NewAIService(config.AIConfig{}),
		alerts,
		reports,
		sessions,
		store,
		cfg.Chat,
	)
	if err != nil {
		t.Fatalf("failed to build chatbot service: %v", err)
	}

	router := gin.New()
	SetupRoutes(router, Deps{
		Config:   cfg,
		Index:    idx,
		Store:    store,
		Sessions: sessions,
		Chatbot:  chatbot,
		Reports:  reports,
		Alerts:   alerts,
		WhatsApp: services.NewWhatsAppService(cfg.WhatsApp),
	})
	return router
}

// envelope mirrors models.APIResponse with the payload left raw so each
// test can decode its own data shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not valid JSON: %v\n%s", err, w.Body.String())
		}
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data payload: %v\n%s", err, env.Data)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !env.Success {
		t.Error("expected success envelope")
	}

	var data struct {
		Status         string `json:"status"`
		Database       string `json:"database"`
		ActiveSessions int    `json:"active_sessions"`
		KnowledgeBase  struct {
			Diseases     int `json:"diseases"`
			Symptoms     int `json:"symptoms"`
			Vaccinations int `json:"vaccinations"`
			Alerts       int `json:"alerts"`
		} `json:"knowledge_base"`
	}
	decodeData(t, env, &data)

	if data.Status != "ok" || data.Database != "ok" {
		t.Errorf("status = %q database = %q, want ok/ok", data.Status, data.Database)
	}
	if data.KnowledgeBase.Diseases == 0 || data.KnowledgeBase.Symptoms == 0 {
		t.Errorf("knowledge base counts missing: %+v", data.KnowledgeBase)
	}
}

func TestChatEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/chat",
		models.ChatRequest{Message: "I have fever and cough"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp models.ChatResponse
	decodeData(t, env, &resp)

	if resp.Intent != models.IntentSymptomQuery {
		t.Errorf("intent = %q, want symptom_query", resp.Intent)
	}
	if resp.SessionID == "" {
		t.Error("expected a minted session id")
	}
	if resp.Assessment == nil {
		t.Fatal("expected an assessment payload")
	}
	if !strings.Contains(resp.Response, services.AssessmentDisclaimer) {
		t.Error("reply is missing the disclaimer")
	}
}

func TestChatEndpointRejectsMissingMessage(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/chat", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestAssessEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/assess",
		models.AssessmentRequest{Symptoms: []string{"fever", "cough"}, DurationDays: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result models.AssessmentResult
	decodeData(t, env, &result)

	if len(result.Candidates) == 0 {
		t.Fatal("expected candidate diseases")
	}
	if result.ID == "" {
		t.Error("expected a report id")
	}
	if result.Urgency != models.SeverityHigh {
		t.Errorf("urgency = %q, want high", result.Urgency)
	}
}

func TestAssessEndpointEmptySymptoms(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/assess",
		map[string]any{"symptoms": []string{}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result models.AssessmentResult
	decodeData(t, env, &result)

	if !result.NeedMoreInfo {
		t.Error("expected need_more_info for empty symptom list")
	}
	if result.Urgency != models.SeverityLow {
		t.Errorf("urgency = %q, want low", result.Urgency)
	}
}

func TestDiseaseLookupEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/diseases/dengue", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var d models.Disease
	decodeData(t, env, &d)
	if d.Name != "Dengue" {
		t.Errorf("name = %q, want Dengue", d.Name)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/diseases/rabies", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestSymptomLookupEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/symptoms/fever", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var s models.Symptom
	decodeData(t, env, &s)
	if s.Name != "fever" {
		t.Errorf("name = %q, want fever", s.Name)
	}

	// Synonyms resolve to their canonical symptom.
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/symptoms/temperature", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("synonym lookup: status = %d, want 200", w.Code)
	}
	decodeData(t, env, &s)
	if s.Name != "fever" {
		t.Errorf("synonym resolved to %q, want fever", s.Name)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/symptoms/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestVaccinationsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/vaccinations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var data struct {
		Schedules []models.VaccinationSchedule `json:"schedules"`
	}
	decodeData(t, env, &data)
	if len(data.Schedules) == 0 {
		t.Fatal("expected the full schedule")
	}
	full := len(data.Schedules)

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/vaccinations?age_months=9", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var filtered struct {
		AgeMonths int                          `json:"age_months"`
		Schedules []models.VaccinationSchedule `json:"schedules"`
	}
	decodeData(t, env, &filtered)
	if filtered.AgeMonths != 9 {
		t.Errorf("age_months = %d, want 9", filtered.AgeMonths)
	}
	if len(filtered.Schedules) == 0 || len(filtered.Schedules) >= full {
		t.Errorf("filtered schedule has %d entries, want fewer than %d and more than zero",
			len(filtered.Schedules), full)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/vaccinations?vaccine=measles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var named struct {
		Schedules []models.VaccinationSchedule `json:"schedules"`
	}
	decodeData(t, env, &named)
	if len(named.Schedules) != 1 || named.Schedules[0].Vaccine != "Measles" {
		t.Errorf("vaccine lookup = %+v, want the Measles schedule alone", named.Schedules)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/vaccinations?vaccine=rabies", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown vaccine: status = %d, want 404", w.Code)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/vaccinations?age_months=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestEmergencyEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/emergency", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var data struct {
		Ambulance string   `json:"ambulance"`
		Guidance  []string `json:"guidance"`
	}
	decodeData(t, env, &data)
	if data.Ambulance != "108" {
		t.Errorf("ambulance = %q, want 108", data.Ambulance)
	}
	if len(data.Guidance) == 0 {
		t.Error("expected guidance lines")
	}
}

func TestAlertEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/alerts?region=Delhi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var listing struct {
		Alerts []models.OutbreakAlert `json:"alerts"`
		Count  int                    `json:"count"`
	}
	decodeData(t, env, &listing)
	if listing.Count != 1 {
		t.Fatalf("Delhi has %d seed alerts, want 1", listing.Count)
	}

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/alerts", models.OutbreakAlert{
		Disease:    "Cholera",
		Region:     "Delhi",
		AlertLevel: models.SeverityHigh,
		Message:    "Boil drinking water.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var published models.OutbreakAlert
	decodeData(t, env, &published)
	if published.ID == "" || !published.Active {
		t.Errorf("published alert incomplete: %+v", published)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/alerts?region=Delhi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	decodeData(t, env, &listing)
	if listing.Count != 2 {
		t.Errorf("Delhi now has %d alerts, want 2", listing.Count)
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/alerts", models.OutbreakAlert{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("publishing an empty alert: status = %d, want 400", w.Code)
	}
}

func TestAlertSubscriptionEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/alerts/subscribe",
		map[string]string{"phone_number": "98765 43210", "region": "Delhi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var sub models.AlertSubscription
	decodeData(t, env, &sub)
	if sub.PhoneNumber != "919876543210" {
		t.Errorf("phone = %q, want normalized 919876543210", sub.PhoneNumber)
	}
	if sub.Channel != models.ChannelSMS {
		t.Errorf("channel = %q, want default sms", sub.Channel)
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/alerts/subscribe",
		map[string]string{"phone_number": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("subscribing without a phone: status = %d, want 400", w.Code)
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/alerts/unsubscribe",
		map[string]string{"phone_number": "98765 43210"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/alerts/unsubscribe",
		map[string]string{"phone_number": "90000 00000"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unsubscribing an unknown number: status = %d, want 404", w.Code)
	}
}

func TestReportPDFEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	_, env := doRequest(t, router, http.MethodPost, "/api/v1/assess",
		models.AssessmentRequest{Symptoms: []string{"fever", "cough"}, DurationDays: 3})
	var result models.AssessmentResult
	decodeData(t, env, &result)
	if result.ID == "" {
		t.Fatal("assessment did not return a report id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+result.ID+"/pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF document")
	}

	w2, _ := doRequest(t, router, http.MethodGet, "/api/v1/reports/nope/pdf", nil)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("unknown report: status = %d, want 404", w2.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	_, _ = doRequest(t, router, http.MethodPost, "/api/v1/chat",
		models.ChatRequest{Message: "hello"})

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/analytics/dashboard?days=7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var data struct {
		Days  int                      `json:"days"`
		Stats models.ConversationStats `json:"stats"`
	}
	decodeData(t, env, &data)
	if data.Days != 7 {
		t.Errorf("days = %d, want 7", data.Days)
	}
	if data.Stats.Total != 1 {
		t.Errorf("total = %d, want 1 logged turn", data.Stats.Total)
	}
	if data.Stats.ByIntent["greeting"] != 1 {
		t.Errorf("intent distribution = %v, want one greeting", data.Stats.ByIntent)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/analytics/dashboard?days=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative window: status = %d, want 400", w.Code)
	}
}

func TestNoRouteHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
	if !strings.Contains(env.Message, "/api/v1/nope") {
		t.Errorf("message = %q, want the missing path named", env.Message)
	}
}

func TestWhatsAppWebhookVerification(t *testing.T) {
	router := newTestRouter(t, nil)

	w, _ := doRequest(t, router, http.MethodGet,
		"/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=1158201444", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "1158201444" {
		t.Errorf("body = %q, want the challenge echoed", w.Body.String())
	}

	w, _ = doRequest(t, router, http.MethodGet,
		"/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

// statusOnlyWebhook is a delivery-status payload; it exercises the webhook
// path without triggering outbound sends.
const statusOnlyWebhook = `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","metadata":{"display_phone_number":"1555","phone_number_id":"42"},"statuses":[{"id":"wamid.1","recipient_id":"919876543210","status":"delivered"}]}}]}]}`

func TestWhatsAppWebhookSignature(t *testing.T) {
	router := newTestRouter(t, func(cfg *config.Config) {
		cfg.WhatsApp.AppSecret = "topsecret"
	})

	post := func(sign bool, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if sign {
			mac := hmac.New(sha256.New, []byte("topsecret"))
			mac.Write([]byte(body))
			req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := post(false, statusOnlyWebhook); w.Code != http.StatusUnauthorized {
		t.Errorf("unsigned webhook: status = %d, want 401", w.Code)
	}
	if w := post(true, statusOnlyWebhook); w.Code != http.StatusOK {
		t.Errorf("signed webhook: status = %d, want 200: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(statusOnlyWebhook))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("tampered webhook: status = %d, want 401", w.Code)
	}
}

func TestWhatsAppWebhookWithoutSecretSkipsCheck(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader(statusOnlyWebhook))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func postSMSForm(t *testing.T, router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sms/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSMSWebhookAssessment(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postSMSForm(t, router, url.Values{
		"MessageSid": {"SM123"},
		"From":       {"+919876543210"},
		"To":         {"+15550001111"},
		"Body":       {"I have fever and cough since 2 days"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Errorf("content type = %q, want text/xml", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Response><Message>") {
		t.Errorf("reply is not TwiML: %s", body)
	}
	if !strings.Contains(body, "Based on your symptoms") {
		t.Errorf("reply is missing the assessment: %s", body)
	}
}

func TestSMSWebhookCommands(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postSMSForm(t, router, url.Values{
		"From": {"919876543210"},
		"Body": {"START"},
	})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "subscribed to health alerts") {
		t.Fatalf("START reply = %d %q", w.Code, w.Body.String())
	}

	w = postSMSForm(t, router, url.Values{
		"From": {"919876543210"},
		"Body": {"stop"},
	})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "no longer receive") {
		t.Fatalf("STOP reply = %d %q", w.Code, w.Body.String())
	}

	w = postSMSForm(t, router, url.Values{
		"From": {"919876543210"},
		"Body": {"help"},
	})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "health assessment") {
		t.Fatalf("HELP reply = %d %q", w.Code, w.Body.String())
	}

	w = postSMSForm(t, router, url.Values{"From": {"919876543210"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing body: status = %d, want 400", w.Code)
	}
}

func TestWebSocketChat(t *testing.T) {
	router := newTestRouter(t, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline failed: %v", err)
	}

	if err := conn.WriteJSON(models.ChatRequest{Message: "I have fever"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var first models.ChatResponse
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if first.Intent != models.IntentSymptomQuery {
		t.Errorf("intent = %q, want symptom_query", first.Intent)
	}
	if first.SessionID == "" {
		t.Fatal("expected a minted session id")
	}

	// The second frame omits the session id; the controller carries the
	// minted one forward so the symptoms accumulate.
	if err := conn.WriteJSON(models.ChatRequest{Message: "also cough since 2 days"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var second models.ChatResponse
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if second.SessionID != first.SessionID {
		t.Errorf("session changed between frames: %q then %q", first.SessionID, second.SessionID)
	}
	if second.Assessment == nil {
		t.Fatal("expected an assessment payload")
	}
	got := strings.Join(second.Assessment.MatchedSymptoms, ",")
	if got != "fever,cough" {
		t.Errorf("matched symptoms = %q, want fever,cough", got)
	}
	if second.Assessment.DurationDays != 2 {
		t.Errorf("duration = %d, want 2", second.Assessment.DurationDays)
	}
}
