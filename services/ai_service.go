package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Shubh1hulk/SIH-Demo/config"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

// generalAnswerSystemPrompt keeps the model on safe, general health
// information. Symptom assessment never goes through this service.
const generalAnswerSystemPrompt = "You are a public health information assistant for rural and semi-urban India. " +
	"Answer general health questions in simple language, in 3-5 short sentences. " +
	"Never give a diagnosis, never prescribe medicines or doses, and always advise " +
	"consulting a qualified healthcare provider for personal medical concerns."

// AIService answers general health questions the knowledge base cannot.
// With no API key configured it stays disabled and callers use their
// canned replies instead.
type AIService struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if s.model == "" {
		s.model = "gpt-4o-mini"
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		clientCfg.HTTPClient = &http.Client{Timeout: timeout}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

// Enabled reports whether an API key was configured.
func (s *AIService) Enabled() bool {
	return s.client != nil
}

// GeneralAnswer asks the model the user's question and returns a short
// plain-text answer.
func (s *AIService) GeneralAnswer(ctx context.Context, question string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("ai service disabled: %w", models.ErrServiceUnavailable)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generalAnswerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
