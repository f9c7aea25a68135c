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
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

const (
	graphAPIBaseURL = "https://graph.facebook.com"

	// Graph API message body limits, in characters.
	maxTextBodyLength        = 4096
	maxInteractiveBodyLength = 1024
)

// WhatsAppService is the Meta Graph API client for the WhatsApp channel.
type WhatsAppService struct {
	apiURL        string
	apiVersion    string
	accessToken   string
	phoneNumberID string
	verifyToken   string
	countryCode   string
	httpClient    *http.Client

	// Status tracking
	statusMu        sync.RWMutex
	webhookVerified bool
	lastMessageTime time.Time
	dailyCount      map[string]int
}

func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v18.0"
	}
	return &WhatsAppService{
		apiURL:        graphAPIBaseURL,
		apiVersion:    apiVersion,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		verifyToken:   cfg.VerifyToken,
		countryCode:   cfg.DefaultCountryCode,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		dailyCount: make(map[string]int),
	}
}

// Enabled reports whether the channel has credentials configured.
func (ws *WhatsAppService) Enabled() bool {
	return ws.accessToken != "" && ws.phoneNumberID != ""
}

// VerifyWebhookToken checks a hub.challenge subscription request and
// remembers a successful verification for the status report.
func (ws *WhatsAppService) VerifyWebhookToken(mode, token string) bool {
	ok := mode == "subscribe" && token != "" && token == ws.verifyToken
	if ok {
		ws.statusMu.Lock()
		ws.webhookVerified = true
		ws.statusMu.Unlock()
	}
	return ok
}

// SendTextMessage sends a plain text message.
func (ws *WhatsAppService) SendTextMessage(ctx context.Context, to string, message string) error {
	payload := models.WhatsAppSendMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               ws.CleanPhoneNumber(to),
		Type:             "text",
		Text: &models.WhatsAppText{
			Body: truncateRunes(message, maxTextBodyLength),
		},
	}
	return ws.sendRequest(ctx, payload)
}

// SendInteractiveMessage sends an interactive (button or list) message.
func (ws *WhatsAppService) SendInteractiveMessage(ctx context.Context, to string, interactive *models.InteractiveMessage) error {
	payload := models.WhatsAppSendMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               ws.CleanPhoneNumber(to),
		Type:             "interactive",
		Interactive:      interactive,
	}
	return ws.sendRequest(ctx, payload)
}

// SendReply delivers one pipeline reply: interactive buttons when the
// suggestions fit the Graph API limits, plain text otherwise.
func (ws *WhatsAppService) SendReply(ctx context.Context, to string, text string, suggestions []string) error {
	buttons := models.SuggestionButtons(suggestions)
	if len(buttons) == 0 || utf8.RuneCountInString(text) > maxInteractiveBodyLength {
		return ws.SendTextMessage(ctx, to, text)
	}
	return ws.SendInteractiveMessage(ctx, to, &models.InteractiveMessage{
		Type:   "button",
		Body:   &models.InteractiveBody{Text: text},
		Action: &models.InteractiveAction{Buttons: buttons},
	})
}

// MarkMessageAsRead marks an inbound message as read.
func (ws *WhatsAppService) MarkMessageAsRead(ctx context.Context, messageID string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return ws.sendRequest(ctx, payload)
}

// sendRequest posts a payload to the messages endpoint.
func (ws *WhatsAppService) sendRequest(ctx context.Context, payload any) error {
	if !ws.Enabled() {
		return fmt.Errorf("whatsapp channel disabled: %w", models.ErrServiceUnavailable)
	}
	url := fmt.Sprintf("%s/%s/%s/messages", ws.apiURL, ws.apiVersion, ws.phoneNumberID)

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+ws.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ws.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp struct {
			Error models.WhatsAppError `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			log.Printf("WhatsApp API error %d: %s", errResp.Error.Code, errResp.Error.Message)
			return fmt.Errorf("WhatsApp API error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return fmt.Errorf("WhatsApp API error: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// CleanPhoneNumber strips formatting and prepends the default country code
// to bare 10-digit national numbers.
func (ws *WhatsAppService) CleanPhoneNumber(phone string) string {
	return NormalizePhoneNumber(phone, ws.countryCode)
}

// NormalizePhoneNumber reduces a phone number to digits and prepends the
// country code to bare 10-digit national numbers. Subscriptions and both
// channel clients share this form.
func NormalizePhoneNumber(phone, countryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(cleaned) == 10 && countryCode != "" {
		cleaned = countryCode + cleaned
	}
	return cleaned
}

// RecordInbound tracks one received message for the status report.
func (ws *WhatsAppService) RecordInbound() {
	ws.statusMu.Lock()
	defer ws.statusMu.Unlock()

	now := time.Now()
	ws.lastMessageTime = now
	ws.dailyCount[now.Format("2006-01-02")]++
}

// Status returns the channel status.
func (ws *WhatsAppService) Status() models.WhatsAppServiceStatus {
	ws.statusMu.RLock()
	defer ws.statusMu.RUnlock()

	today := time.Now().Format("2006-01-02")
	return models.WhatsAppServiceStatus{
		Enabled:             ws.Enabled(),
		WebhookVerified:     ws.webhookVerified,
		LastMessageReceived: ws.lastMessageTime,
		MessageCountToday:   ws.dailyCount[today],
	}
}

// truncateRunes caps text at limit characters, ellipsized.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
