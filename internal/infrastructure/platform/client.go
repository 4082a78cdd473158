// Package platform implements the remote tournament platform capabilities
// (auth, wallet, user profile) over its HTTP JSON API. Every call is
// single-attempt: retry policy belongs to the user, not this layer.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the bearer token attached to authorized requests.
// An empty token means the request goes out unauthenticated.
type TokenSource func() string

// envelope is the platform's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client is the shared HTTP transport for all platform capability adapters.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	log     zerolog.Logger
}

// NewClient builds a Client for the given base URL. tokens may be nil for a
// client that only performs unauthenticated calls.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     log,
	}
}

// do issues one request and decodes the envelope's data into out (when out is
// non-nil). It returns the envelope's message, which mutations carry as a
// server-composed confirmation. A well-formed backend rejection becomes
// *domain.RemoteError; any transport or decode problem is a wrapped error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("platform %s %s: marshal: %w", method, path, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return "", fmt.Errorf("platform %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("platform %s %s: read body: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("platform %s %s: status %d: unparseable body: %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		if env.Message != "" {
			return "", &domain.RemoteError{Message: env.Message}
		}
		return "", fmt.Errorf("platform %s %s: status %d without message", method, path, resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("platform %s %s: decode data: %w", method, path, err)
		}
	}
	return env.Message, nil
}
