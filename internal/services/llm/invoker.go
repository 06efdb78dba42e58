// Package llm sends tutoring prompts to a hosted chat model.
//
// The Invoker always returns something the student can read. A missing API
// key or a failed remote call becomes the answer text itself (prefixed so it
// is clearly an error), which keeps the page usable for another try.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// Temperature is fixed low so answers stay close to the page text.
const Temperature float32 = 0.3

// ErrorPrefix marks answers that are really remote-call failures.
const ErrorPrefix = "LLM error:"

// Provider names a chat backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// CredentialEnv returns the environment variable that holds this provider's key.
func (p Provider) CredentialEnv() string {
	if p == ProviderGemini {
		return "GOOGLE_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ErrClientUnavailable is returned when no chat client can be built at all.
var ErrClientUnavailable = errors.New("LLM client not available; check LLM_PROVIDER")

// MissingCredentialError means no API key is configured for the provider.
type MissingCredentialError struct {
	EnvVar string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("No API key provided. Set %s.", e.EnvVar)
}

// RemoteCallError wraps any failure of the chat call.
type RemoteCallError struct {
	Err error
}

func (e *RemoteCallError) Error() string {
	return ErrorPrefix + " " + e.Err.Error()
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// ChatClient is one completion round trip against a provider.
type ChatClient interface {
	Complete(ctx context.Context, model string, prompt tutor.Prompt, temperature float32) (string, error)
}

// Config selects the provider and credentials.
type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string // optional endpoint override for the provider
	Model    string
}

// ClientFactory builds a ChatClient for a config.
type ClientFactory func(ctx context.Context, cfg Config) (ChatClient, error)

// Answer is what the student sees. Err is set when Text describes a failure.
type Answer struct {
	Text  string
	Model string
	Err   error
}

// IsError reports whether the answer is an error message.
func (a Answer) IsError() bool {
	return a.Err != nil
}

// Invoker composes prompts and calls the chat model.
// It holds no per-request state and is safe for concurrent use.
type Invoker struct {
	cfg     Config
	factory ClientFactory
}

// NewInvoker creates an invoker. A nil factory means DefaultFactory.
func NewInvoker(cfg Config, factory ClientFactory) *Invoker {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if factory == nil {
		factory = DefaultFactory
	}
	return &Invoker{cfg: cfg, factory: factory}
}

// Provider returns the configured backend.
func (inv *Invoker) Provider() Provider {
	return inv.cfg.Provider
}

// Model returns the default model identifier.
func (inv *Invoker) Model() string {
	return inv.cfg.Model
}

// HasCredential reports whether an API key is configured.
func (inv *Invoker) HasCredential() bool {
	return strings.TrimSpace(inv.cfg.APIKey) != ""
}

// Ask answers question using only contextText. model overrides the default
// when non-empty. Ask never returns an error value: failures come back as
// the answer text with Answer.Err set.
func (inv *Invoker) Ask(ctx context.Context, model, contextText, question string) (ans Answer) {
	if model == "" {
		model = inv.cfg.Model
	}
	ans.Model = model

	if !inv.HasCredential() {
		err := &MissingCredentialError{EnvVar: inv.cfg.Provider.CredentialEnv()}
		return Answer{Text: err.Error(), Model: model, Err: err}
	}

	// A panicking client must not take the request down with it.
	defer func() {
		if r := recover(); r != nil {
			ans = remoteFailure(model, fmt.Errorf("panic: %v", r))
		}
	}()

	client, err := inv.factory(ctx, inv.cfg)
	if err != nil {
		return remoteFailure(model, err)
	}
	if client == nil {
		return remoteFailure(model, ErrClientUnavailable)
	}

	prompt := tutor.Compose(contextText, question)

	start := time.Now()
	out, err := client.Complete(ctx, model, prompt, Temperature)
	if err != nil {
		log.Printf("❌ LLM call failed (%s, %s): %v", inv.cfg.Provider, model, err)
		return remoteFailure(model, err)
	}

	log.Printf("🤖 LLM answered (%s, %s) in %s", inv.cfg.Provider, model, time.Since(start).Round(time.Millisecond))
	return Answer{Text: strings.TrimSpace(out), Model: model}
}

func remoteFailure(model string, err error) Answer {
	rerr := &RemoteCallError{Err: err}
	return Answer{Text: rerr.Error(), Model: model, Err: rerr}
}

// DefaultFactory builds the client for cfg.Provider.
func DefaultFactory(ctx context.Context, cfg Config) (ChatClient, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL), nil
	case ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrClientUnavailable, cfg.Provider)
	}
}
