package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
	"github.com/Shubh1hulk/SIH-Demo/utils"
)

// AlertSender delivers one alert notification on a single channel.
type AlertSender interface {
	SendAlert(ctx context.Context, to string, message string) error
}

// AlertSenderFunc adapts a send function to the AlertSender interface.
type AlertSenderFunc func(ctx context.Context, to string, message string) error

func (f AlertSenderFunc) SendAlert(ctx context.Context, to string, message string) error {
	return f(ctx, to, message)
}

// AlertService layers published outbreak alerts over the knowledge base
// seed alerts and fans new ones out to subscribers.
type AlertService struct {
	idx         *knowledge.Index
	subs        *database.SubscriptionStore
	normalizer  *LanguageNormalizer
	senders     map[models.MessageChannel]AlertSender
	retries     int
	backoff     time.Duration
	countryCode string

	mu        sync.RWMutex
	published []models.OutbreakAlert
}

func NewAlertService(
	idx *knowledge.Index,
	subs *database.SubscriptionStore,
	normalizer *LanguageNormalizer,
	senders map[models.MessageChannel]AlertSender,
	cfg config.AlertConfig,
	countryCode string,
) *AlertService {
	retries := cfg.SendRetries
	if retries < 1 {
		retries = 1
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &AlertService{
		idx:         idx,
		subs:        subs,
		normalizer:  normalizer,
		senders:     senders,
		retries:     retries,
		backoff:     backoff,
		countryCode: countryCode,
	}
}

// Publish validates and registers a new outbreak alert, then notifies
// matching subscribers in the background. Fan-out failures never reach the
// publisher.
func (s *AlertService) Publish(alert models.OutbreakAlert) (*models.OutbreakAlert, error) {
	if strings.TrimSpace(alert.Disease) == "" {
		return nil, models.NewValidationError("disease", "is required")
	}
	if strings.TrimSpace(alert.Region) == "" {
		return nil, models.NewValidationError("region", "is required")
	}
	if strings.TrimSpace(alert.Message) == "" {
		return nil, models.NewValidationError("message", "is required")
	}
	if alert.AlertLevel == "" {
		alert.AlertLevel = models.SeverityModerate
	}
	if !alert.AlertLevel.Valid() {
		return nil, models.NewValidationError("alert_level", "must be one of low, moderate, high, critical")
	}

	alert.ID = uuid.NewString()
	alert.IssuedAt = time.Now()
	alert.Active = true

	s.mu.Lock()
	s.published = append(s.published, alert)
	s.mu.Unlock()

	go s.fanOut(alert)

	return &alert, nil
}

// Subscribe registers a phone number for alert fan-out. Subscribing again
// updates and reactivates the existing registration.
func (s *AlertService) Subscribe(sub models.AlertSubscription) (*models.AlertSubscription, error) {
	sub.PhoneNumber = NormalizePhoneNumber(sub.PhoneNumber, s.countryCode)
	if sub.PhoneNumber == "" {
		return nil, models.NewValidationError("phone_number", "is required")
	}
	switch sub.Channel {
	case models.ChannelWhatsApp, models.ChannelSMS:
	case "":
		sub.Channel = models.ChannelSMS
	default:
		return nil, models.NewValidationError("channel", "must be whatsapp or sms")
	}
	if sub.Region == "" {
		sub.Region = "all"
	}
	if !SupportedLanguage(sub.Language) {
		sub.Language = "en"
	}

	sub.ID = uuid.NewString()
	sub.Active = true
	sub.CreatedAt = time.Now()
	s.subs.Upsert(sub)

	return &sub, nil
}

// Unsubscribe deactivates the subscription for a phone number. Returns
// false when the number was never subscribed.
func (s *AlertService) Unsubscribe(phone string) bool {
	return s.subs.Deactivate(NormalizePhoneNumber(phone, s.countryCode))
}

// Resubscribe reactivates an existing subscription, for the SMS START
// keyword. Returns false when the number was never subscribed.
func (s *AlertService) Resubscribe(phone string) bool {
	sub, ok := s.subs.Get(NormalizePhoneNumber(phone, s.countryCode))
	if !ok {
		return false
	}
	sub.Active = true
	s.subs.Upsert(sub)
	return true
}

// ActiveByRegion merges seed and published alerts, newest first. An empty
// region or "all" returns every active alert.
func (s *AlertService) ActiveByRegion(region string) []models.OutbreakAlert {
	var out []models.OutbreakAlert
	for _, a := range s.idx.SeedAlerts() {
		if a.Active && regionMatches(a.Region, region) {
			out = append(out, a)
		}
	}

	s.mu.RLock()
	for _, a := range s.published {
		if a.Active && regionMatches(a.Region, region) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out
}

// MatchRegion finds a known alert region mentioned in normalized text.
func (s *AlertService) MatchRegion(normalized string) string {
	for _, region := range s.regions() {
		if utils.ContainsPhrase(normalized, strings.ToLower(region)) {
			return region
		}
	}
	return ""
}

func (s *AlertService) regions() []string {
	var regions []string
	seen := make(map[string]bool)
	add := func(region string) {
		key := strings.ToLower(region)
		if !seen[key] {
			seen[key] = true
			regions = append(regions, region)
		}
	}

	for _, a := range s.idx.SeedAlerts() {
		add(a.Region)
	}
	s.mu.RLock()
	for _, a := range s.published {
		add(a.Region)
	}
	s.mu.RUnlock()
	return regions
}

// fanOut notifies every matching active subscriber over their channel.
func (s *AlertService) fanOut(alert models.OutbreakAlert) {
	subscribers := s.subs.ActiveForRegion(alert.Region)
	if len(subscribers) == 0 {
		return
	}
	log.Printf("Fanning out alert %s (%s in %s) to %d subscribers",
		alert.ID, alert.Disease, alert.Region, len(subscribers))

	text := formatAlertMessage(alert)
	for _, sub := range subscribers {
		sender, ok := s.senders[sub.Channel]
		if !ok {
			log.Printf("No sender for channel %s, skipping subscriber %s", sub.Channel, sub.PhoneNumber)
			continue
		}

		message := text
		if sub.Language != "" && sub.Language != "en" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			message, _ = s.normalizer.Localize(ctx, text, sub.Language)
			cancel()
		}
		s.deliver(sender, sub, message)
	}
}

// deliver retries a send with exponential backoff. Failures are logged,
// never propagated.
func (s *AlertService) deliver(sender AlertSender, sub models.AlertSubscription, message string) {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff << (attempt - 1))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = sender.SendAlert(ctx, sub.PhoneNumber, message)
		cancel()
		if err == nil {
			return
		}
	}
	log.Printf("Alert delivery to %s via %s failed after %d attempts: %v",
		sub.PhoneNumber, sub.Channel, s.retries, err)
}

func formatAlertMessage(alert models.OutbreakAlert) string {
	return fmt.Sprintf("%s Health alert for %s: %s outbreak. %s",
		alertLevelEmoji(alert.AlertLevel), alert.Region, alert.Disease, alert.Message)
}

func regionMatches(alertRegion, want string) bool {
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(alertRegion, want)
}
