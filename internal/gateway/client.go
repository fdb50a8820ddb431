// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kblissett/language-tutor/internal/model"
)

// Configuration constants for the chat-completions endpoint.
const (
	// DefaultBaseURL is the base URL for the API.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultChatModel is the model used for the conversational reply.
	DefaultChatModel = "gpt-4o-mini"

	// DefaultCorrectionModel is the model used for the corrections request.
	DefaultCorrectionModel = "gpt-4o-mini"

	// DefaultCorrectionTimeout bounds the best-effort corrections request.
	// The reply stream has no request timeout; it is controlled via context.
	DefaultCorrectionTimeout = 20 * time.Second

	// DefaultTimeout is the timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

var (
	// sharedHTTPClient serves non-streaming requests, with connection
	// pooling shared across clients.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient serves streaming requests. No client timeout;
	// lifetime is controlled via the request context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// Error variables for common gateway errors.
var (
	// ErrNotConfigured indicates the API credential is not set. It is
	// returned synchronously, before any network attempt.
	ErrNotConfigured = errors.New("API credential not configured")

	// ErrAuthFailed indicates the provider rejected the credential.
	ErrAuthFailed = errors.New("authentication failed")
)

// APIError represents a non-auth error response from the provider.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the request body for the chat-completions endpoint.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []model.Message `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatResponse is a non-streaming chat-completions response.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      model.Message `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

// content returns the content of the first choice, or "" if none.
func (r *chatResponse) content() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// apiErrorResponse is the provider's error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Config carries everything the client needs. It is an explicit value, not
// process-wide state: when the credential changes the caller constructs a
// new client.
type Config struct {
	// APIKey is the bearer credential. Empty means not configured.
	APIKey string

	// BaseURL is the API base URL (no trailing slash).
	BaseURL string

	// ChatModel is the model identifier for streaming replies.
	ChatModel string

	// CorrectionModel is the model identifier for corrections requests.
	CorrectionModel string

	// CorrectionTimeout bounds the corrections request.
	CorrectionTimeout time.Duration

	// Language is the language being tutored, named in the correction
	// prompt (e.g. "Spanish").
	Language string
}

// withDefaults fills unset fields with package defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.ChatModel == "" {
		c.ChatModel = DefaultChatModel
	}
	if c.CorrectionModel == "" {
		c.CorrectionModel = DefaultCorrectionModel
	}
	if c.CorrectionTimeout <= 0 {
		c.CorrectionTimeout = DefaultCorrectionTimeout
	}
	if c.Language == "" {
		c.Language = "Spanish"
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	return c
}

// Client talks to the chat-completions endpoint.
type Client struct {
	cfg Config
}

// NewClient creates a client from the given configuration. A client with an
// empty API key is still valid to construct; both operations will fail with
// ErrNotConfigured without touching the network.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// IsConfigured returns true if the client has a credential.
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKey != ""
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "language-tutor/0.1")
}

// logRequest logs an API request without exposing sensitive data. Headers
// and bodies are never logged.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to gateway errors.
//
// Auth failures are detected by status code. Some providers signal an auth
// failure only in the error text; the "API key" substring match covers
// those when the body cannot be parsed.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if statusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Error.Message)
		}
		return &APIError{
			Code:    apiErr.Error.Code,
			Message: apiErr.Error.Message,
			Status:  statusCode,
		}
	}

	if statusCode == http.StatusUnauthorized {
		return ErrAuthFailed
	}
	if strings.Contains(string(body), "API key") {
		// Fallback heuristic for unparsable error bodies.
		return fmt.Errorf("%w: %s", ErrAuthFailed, string(body))
	}
	return &APIError{
		Message: string(body),
		Status:  statusCode,
	}
}
