package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel         = "deepseek/deepseek-chat-v3.1:free"
	DefaultMaxTokens     = 8192
)

var ErrNoChoices = errors.New("no response choices received")

// Completer turns a system prompt and a user prompt into model text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type RequestPayload struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type ChatMessage struct {
	Role    string `json:"role"` // "user" or "system"
	Content string `json:"content"`
}

type ApiResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type OpenRouterClient struct {
	URL       string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	if model == "" {
		model = DefaultModel
	}
	return &OpenRouterClient{
		URL:       DefaultOpenRouterURL,
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: DefaultMaxTokens,
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("OPENROUTER_API_KEY not found in environment")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload := RequestPayload{
		Model: c.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: c.MaxTokens,
	}

	agent := fiber.Post(c.URL).
		Set(fiber.HeaderAuthorization, "Bearer "+c.APIKey).
		JSON(payload)
	if c.Timeout > 0 {
		agent.Timeout(c.Timeout)
	}

	var apiResponse ApiResponse
	code, body, errs := agent.Struct(&apiResponse)
	if len(errs) > 0 {
		return "", fmt.Errorf("completion request: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return "", fmt.Errorf("completion request: status %d: %s", code, string(body))
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoChoices, string(body))
	}
	return apiResponse.Choices[0].Message.Content, nil
}
