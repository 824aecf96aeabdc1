package providers

import (
	"os"
	"strings"
)

const defaultOllamaURL = "http://localhost:11434"

// NewOllama creates a provider for Ollama and LM Studio through their
// OpenAI-compatible API. No API key is required by default.
func NewOllama(model string, o options) (*OpenAI, error) {
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	// Normalize URL: strip trailing /, /v1, /v1/chat/completions
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")
	o.baseURL = baseURL + "/v1"

	// Optional API key for servers that require it (e.g., LM Studio)
	apiKey := os.Getenv("FIGCRIT_OLLAMA_API_KEY")
	if apiKey == "" {
		apiKey = "ollama"
	}
	return newChatCompletions("ollama", model, apiKey, o), nil
}
