// Package providers implements the Generator interface for each supported LLM
// provider.
//
// Supported providers: Google (Gemini) through the genai SDK, OpenAI through
// go-openai, and Ollama / LM Studio through the same OpenAI-compatible client.
//
// All providers share a common retry helper with exponential back-off that
// retries rate limits and server errors only. Endpoints and HTTP clients are
// injected through options so that tests can point calls at local httptest
// servers without making live API requests.
//
// Use [New] to obtain a Generator by provider name, model and API key.
package providers
