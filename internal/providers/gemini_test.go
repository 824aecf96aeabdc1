package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const geminiOK = `{
	"candidates": [{"content": {"role": "model", "parts": [{"text": "# Report\n\nLooks fine."}]}}],
	"usageMetadata": {"promptTokenCount": 50, "candidatesTokenCount": 25, "totalTokenCount": 75}
}`

func newTestGemini(t *testing.T, h http.HandlerFunc) Generator {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	g, err := New("gemini", "gemini-2.5-pro", "test-key",
		WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithMaxRetries(2))
	require.NoError(t, err)
	return g
}

func TestGemini_Generate(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "be critical", gjson.GetBytes(body, "systemInstruction.parts.0.text").String())
		assert.Equal(t, "tree goes here", gjson.GetBytes(body, "contents.0.parts.0.text").String())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiOK))
	})

	resp, err := g.Generate(context.Background(), Request{
		SystemPrompt: "be critical",
		UserPrompt:   "tree goes here",
		MaxTokens:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nLooks fine.", resp.Content)
	assert.Equal(t, 75, resp.TokensUsed)
	assert.Equal(t, "gemini", g.Name())
}

func TestGemini_RateLimitRetried(t *testing.T) {
	withFastBackoff(t)
	attempts := 0
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		w.Write([]byte(geminiOK))
	})

	resp, err := g.Generate(context.Background(), Request{UserPrompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, resp.Content, "Looks fine")
}

func TestGemini_AuthErrorNotRetried(t *testing.T) {
	withFastBackoff(t)
	attempts := 0
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	})

	_, err := g.Generate(context.Background(), Request{UserPrompt: "x"})
	require.Error(t, err)
	assert.True(t, IsAuthError(err), "got %v", err)
	assert.Equal(t, 1, attempts)
}

func TestGemini_BadRequestNotRetried(t *testing.T) {
	withFastBackoff(t)
	attempts := 0
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad model","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Generate(context.Background(), Request{UserPrompt: "x"})
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
	assert.Equal(t, 1, attempts)
}

func TestGemini_EmptyResponse(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := g.Generate(context.Background(), Request{UserPrompt: "x"})
	assert.True(t, errors.Is(err, ErrEmptyResponse), "got %v", err)
}

func TestGemini_TokenLimitBeforeText(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}],
			"usageMetadata":{"promptTokenCount":5,"thoughtsTokenCount":10,"totalTokenCount":15}}`))
	})

	_, err := g.Generate(context.Background(), Request{UserPrompt: "x", MaxTokens: 10})
	assert.ErrorIs(t, err, ErrTokenLimit)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New("gemini", "gemini-2.5-pro", "")
	assert.Error(t, err)
	_, err = New("openai", "gpt-4o", "")
	assert.Error(t, err)
}
