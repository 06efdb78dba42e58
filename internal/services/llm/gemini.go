package llm

import (
	"context"
	"errors"
	"net/http"

	genai "google.golang.org/genai"

	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// GeminiClient calls Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client for the Gemini API backend. An empty
// baseURL uses Google's endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: requestTimeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c}, nil
}

// Complete sends the user prompt with the tutor persona as the system instruction.
func (g *GeminiClient) Complete(ctx context.Context, model string, prompt tutor.Prompt, temperature float32) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
	})
	if err != nil {
		return "", err
	}

	text := res.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
