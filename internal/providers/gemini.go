package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini implements the Generator interface for Google's Gemini API.
type Gemini struct {
	model      string
	client     *genai.Client
	maxRetries int
}

// NewGemini creates a new Gemini provider backed by the genai SDK.
func NewGemini(model, apiKey string, o options) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 300 * time.Second}
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if o.baseURL == "" {
		o.baseURL = os.Getenv("GOOGLE_GEMINI_BASE_URL")
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(o.baseURL, "/") + "/"}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{model: model, client: client, maxRetries: o.maxRetries}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	contents := []*genai.Content{genai.NewContentFromText(req.UserPrompt, genai.RoleUser)}

	var resp Response
	err := retryWithBackoff(ctx, g.maxRetries, func() error {
		result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			return classify(err)
		}

		text := result.Text()
		if strings.TrimSpace(text) == "" {
			if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
				return ErrTokenLimit
			}
			return ErrEmptyResponse
		}
		resp = Response{Content: text}
		if result.UsageMetadata != nil {
			resp.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
		}
		return nil
	})

	return resp, err
}
