package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// ErrTokenLimit is an empty response cut off by the output token limit.
// Thinking models spend part of maxTokens before writing any text.
var ErrTokenLimit = fmt.Errorf("%w: output token limit reached before any text, raise maxTokens", ErrEmptyResponse)

// backoffUnit is the first retry delay; it doubles on every attempt.
var backoffUnit = time.Second

type rateLimitError struct {
	message string
}

func (e *rateLimitError) Error() string { return "rate limited: " + e.message }

type serverError struct {
	statusCode int
	message    string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.message)
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// classify maps SDK errors onto the retry categories by HTTP status.
func classify(err error) error {
	if err == nil {
		return nil
	}
	status, message := 0, err.Error()

	var gErr genai.APIError
	var oErr *openai.APIError
	var rErr *openai.RequestError
	switch {
	case errors.As(err, &gErr):
		status, message = gErr.Code, gErr.Message
	case errors.As(err, &oErr):
		status, message = oErr.HTTPStatusCode, oErr.Message
	case errors.As(err, &rErr):
		status = rErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &authError{message: message}
	case status == http.StatusTooManyRequests:
		return &rateLimitError{message: message}
	case status >= 500:
		return &serverError{statusCode: status, message: message}
	default:
		return err
	}
}

func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Only rate limits and server errors are worth another attempt.
		var rl *rateLimitError
		var se *serverError
		if !errors.As(lastErr, &rl) && !errors.As(lastErr, &se) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * backoffUnit
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
