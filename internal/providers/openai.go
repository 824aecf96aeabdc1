package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAI implements the Generator interface for OpenAI and any endpoint that
// speaks the chat completions API.
type OpenAI struct {
	name       string
	model      string
	client     *openai.Client
	maxRetries int
}

// NewOpenAI creates a new OpenAI provider. OPENAI_BASE_URL redirects it to a
// compatible endpoint when no base URL option is given.
func NewOpenAI(model, apiKey string, o options) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if o.baseURL == "" {
		o.baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	return newChatCompletions("openai", model, apiKey, o), nil
}

func newChatCompletions(name, model, apiKey string, o options) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: 300 * time.Second}
	}
	return &OpenAI{
		name:       name,
		model:      model,
		client:     openai.NewClientWithConfig(cfg),
		maxRetries: o.maxRetries,
	}
}

func (c *OpenAI) Name() string { return c.name }

func (c *OpenAI) Generate(ctx context.Context, req Request) (Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: float32(req.Temperature),
	}
	// Reasoning models reject max_tokens.
	if isReasoningModel(c.model) {
		chatReq.MaxCompletionTokens = req.MaxTokens
		chatReq.Temperature = 0
	} else {
		chatReq.MaxTokens = req.MaxTokens
		// temperature is omitempty; the smallest float keeps an explicit 0 on the wire
		if req.Temperature == 0 {
			chatReq.Temperature = math.SmallestNonzeroFloat32
		}
	}

	var resp Response
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		result, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classify(err)
		}
		if len(result.Choices) == 0 {
			return ErrEmptyResponse
		}
		if choice := result.Choices[0]; strings.TrimSpace(choice.Message.Content) == "" {
			if choice.FinishReason == openai.FinishReasonLength {
				return ErrTokenLimit
			}
			return ErrEmptyResponse
		}

		resp = Response{
			Content:    result.Choices[0].Message.Content,
			TokensUsed: result.Usage.TotalTokens,
		}
		return nil
	})

	return resp, err
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
