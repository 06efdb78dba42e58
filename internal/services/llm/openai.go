package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// requestTimeout bounds one model call. The server's write timeout is longer.
const requestTimeout = 120 * time.Second

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, OpenRouter, or a local gateway via BaseURL).
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client. An empty baseURL uses api.openai.com.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	// Go Pattern: Always configure timeouts on HTTP clients.
	// The default http.Client has NO timeout — requests can hang forever!
	cfg.HTTPClient = &http.Client{
		Timeout: requestTimeout, // LLMs can be slow
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends the system and user messages and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, model string, prompt tutor.Prompt, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
