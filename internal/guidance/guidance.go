// Package guidance generates beginner-friendly exercise instructions with an
// OpenAI-compatible chat completions API.
package guidance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyResponse is returned when the upstream reply has no content.
var ErrEmptyResponse = errors.New("guidance: empty response")

// Generator produces guidance text for an exercise.
type Generator interface {
	Generate(ctx context.Context, exerciseName string) (string, error)
}

// Client calls the chat completions endpoint.
type Client struct {
	api   *openai.Client
	model string
}

var _ Generator = (*Client)(nil)

// NewClient creates a Client. baseURL is the API root, e.g.
// https://api.openai.com/v1.
func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Prompt builds the coaching prompt for an exercise.
func Prompt(exerciseName string) string {
	return fmt.Sprintf(`You are a certified fitness coach.

Your task is to provide clear, beginner-friendly instructions for the following exercise: %s.

Your response must:
- Be concise (under 150 words)
- Use proper Markdown formatting
- Include spacing between headers and their content
- Always include the following sections (even if a section says "None" or "Not required"):

## Equipment Required

## Instructions

### Tips

### Variations

### Safety

Keep your tone encouraging, educational, and suitable for a fitness app or guide.
`, exerciseName)
}

// Generate asks the model for guidance on exerciseName.
func (c *Client) Generate(ctx context.Context, exerciseName string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(exerciseName)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("guidance: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
