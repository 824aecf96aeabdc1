package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Request contains the data sent to an LLM for one critique.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Generator is the provider abstraction interface.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

type options struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// Option customizes a provider built by New.
type Option func(*options)

// WithBaseURL points the provider at a different endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithMaxRetries sets how many times a rate-limited or failed call is retried.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// New creates a provider by name. apiKey may be empty only for ollama.
func New(provider, model, apiKey string, opts ...Option) (Generator, error) {
	o := options{maxRetries: 3}
	for _, opt := range opts {
		opt(&o)
	}
	if model == "" {
		return nil, fmt.Errorf("no model given for provider %s", provider)
	}

	switch strings.ToLower(provider) {
	case "gemini", "google":
		return NewGemini(model, apiKey, o)
	case "openai":
		return NewOpenAI(model, apiKey, o)
	case "ollama":
		return NewOllama(model, o)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
