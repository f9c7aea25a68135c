package services

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

const twilioAPIBaseURL = "https://api.twilio.com/2010-04-01"

const (
	// GSM-7 segment sizes: 160 characters for a single SMS, 153 per part
	// when concatenated.
	singleSegmentLength = 160
	multiSegmentLength  = 153
	// maxSegments bounds the cost of one outbound reply.
	maxSegments = 3
)

// SMS keyword commands per carrier conventions.
const (
	SMSCommandStop  = "stop"
	SMSCommandStart = "start"
	SMSCommandHelp  = "help"
)

// SMSService is the Twilio REST client for the SMS channel.
type SMSService struct {
	apiURL     string
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

func NewSMSService(cfg config.SMSConfig) *SMSService {
	return &SMSService{
		apiURL:     twilioAPIBaseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether the channel has credentials configured.
func (s *SMSService) Enabled() bool {
	return s.accountSID != "" && s.authToken != "" && s.fromNumber != ""
}

// SendSMS sends one message through the Twilio REST API. The body is capped
// at three concatenated segments.
func (s *SMSService) SendSMS(ctx context.Context, to string, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("sms channel disabled: %w", models.ErrServiceUnavailable)
	}

	form := url.Values{}
	form.Set("To", normalizeE164(to))
	form.Set("From", s.fromNumber)
	form.Set("Body", TruncateForSMS(body))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.apiURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var errResp struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			log.Printf("Twilio API error %d: %s", errResp.Code, errResp.Message)
			return fmt.Errorf("Twilio API error %d: %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("Twilio API error: status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// ParseIncoming maps a Twilio form webhook onto the inbound SMS model.
func ParseIncoming(form url.Values) models.IncomingSMS {
	return models.IncomingSMS{
		MessageSID: form.Get("MessageSid"),
		AccountSID: form.Get("AccountSid"),
		From:       form.Get("From"),
		To:         form.Get("To"),
		Body:       form.Get("Body"),
	}
}

// TwiML renders the reply document Twilio expects from an SMS webhook.
func TwiML(message string) ([]byte, error) {
	out, err := xml.Marshal(models.TwiMLResponse{Message: TruncateForSMS(message)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TwiML: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// ParseSMSCommand recognizes the STOP/START/HELP keyword family. A command
// must be the entire message.
func ParseSMSCommand(body string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "stop", "stopall", "unsubscribe", "cancel", "end", "quit":
		return SMSCommandStop, true
	case "start", "subscribe", "unstop":
		return SMSCommandStart, true
	case "help", "info":
		return SMSCommandHelp, true
	}
	return "", false
}

// TruncateForSMS caps a reply at three concatenated GSM segments.
func TruncateForSMS(text string) string {
	if utf8.RuneCountInString(text) <= singleSegmentLength {
		return text
	}
	return truncateRunes(text, maxSegments*multiSegmentLength)
}

// normalizeE164 adds the leading + Twilio expects on recipient numbers.
func normalizeE164(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}
