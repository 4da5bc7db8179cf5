package ai

import (
	"context"
	"time"
)

// Provider is a text-generation backend. The advisory layer treats it as an
// opaque enrichment step: any error from Complete triggers the deterministic
// fallback, never a caller-visible failure.
type Provider interface {
	// Complete generates free text for a single prompt
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Name returns the provider name (e.g. "gemini")
	Name() string
}

// CompletionRequest is a single-turn text generation request
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ProviderConfig holds provider wiring
type ProviderConfig struct {
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	RateLimitRPM int
}

// ProviderError represents an error from a text-generation provider
type ProviderError struct {
	Provider  string
	Code      string
	Message   string
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Message
}

// Common error codes
const (
	ErrorCodeRateLimit      = "rate_limit"
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeAuthentication = "authentication"
	ErrorCodeServerError    = "server_error"
	ErrorCodeTimeout        = "timeout"
	ErrorCodeUnavailable    = "unavailable"
)
