package database

import (
	"strings"
	"sync"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// SubscriptionStore holds outbreak alert subscriptions in memory.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]*models.AlertSubscription // keyed by phone number
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[string]*models.AlertSubscription)}
}

// Upsert activates or updates the subscription for a phone number.
func (s *SubscriptionStore) Upsert(sub models.AlertSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := sub
	s.subs[sub.PhoneNumber] = &copied
}

// Deactivate turns a subscription off, keeping the record. Returns false
// when the phone number was never subscribed.
func (s *SubscriptionStore) Deactivate(phoneNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[phoneNumber]
	if !ok {
		return false
	}
	sub.Active = false
	return true
}

// Get returns the subscription for a phone number.
func (s *SubscriptionStore) Get(phoneNumber string) (models.AlertSubscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[phoneNumber]
	if !ok {
		return models.AlertSubscription{}, false
	}
	return *sub, true
}

// ActiveForRegion returns active subscriptions matching the region. A
// subscription with region "all" matches every alert and vice versa.
func (s *SubscriptionStore) ActiveForRegion(region string) []models.AlertSubscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	region = strings.ToLower(strings.TrimSpace(region))
	var out []models.AlertSubscription
	for _, sub := range s.subs {
		if !sub.Active {
			continue
		}
		subRegion := strings.ToLower(sub.Region)
		if region == "" || region == "all" || subRegion == "" || subRegion == "all" || subRegion == region {
			out = append(out, *sub)
		}
	}
	return out
}
