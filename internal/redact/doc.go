// Package redact removes secrets from design text before it is sent to any
// LLM provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (Figma, Google, Anthropic, OpenAI,
// GitHub, Slack).
//
// Layer-based redaction is also supported: TEXT layers whose names match
// configured glob patterns have their characters replaced with [REDACTED]
// rather than being scanned.
package redact
