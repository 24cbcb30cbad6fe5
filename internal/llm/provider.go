// Package llm wraps the language-model backends the remote advisor can
// call: Gemini through the genai SDK and a local Ollama server.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrNoDefaultProvider = errors.New("no default provider configured")
	ErrMissingAPIKey     = errors.New("API key not set")
	ErrRateLimited       = errors.New("rate limit exceeded")
)

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 60 * time.Second

// Provider generates a completion for a prompt
type Provider interface {
	// Name is the registry key, e.g. "gemini"
	Name() string

	// Generate performs a single completion request
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Role is the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    Role
	Content string
}

// Request is a completion request. Zero values leave the provider defaults.
type Request struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	StopSeqs    []string
}

// Response is a completed generation
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage counts tokens billed for a request
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StatusError is a non-2xx answer from a provider API
type StatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Code, e.Message)
}

// Retryable reports whether the status is transient
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError && e.Code != http.StatusNotImplemented
}

// newHTTPClient returns the client used for provider calls
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.ResponseHeaderTimeout = timeout

	return &http.Client{Timeout: timeout, Transport: transport}
}
