// Package api is the typed HTTP surface of the storefront backend. It adds
// the bearer token and a request id to every call, resolves paths against
// the configured base URL, and maps non-2xx responses to *Error with the
// server-supplied message when the body carries one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"estate-front/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error is a non-2xx backend response. Message is the body's "message"
// field when present, otherwise a generic fallback. 401/403 responses
// unwrap to auth.ErrSignInRequired.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return auth.ErrSignInRequired
	}
	return nil
}

// Client wraps an http.Client with base URL resolution and auth.
type Client struct {
	base    *url.URL
	http    *http.Client
	session *auth.Session
	logger  *zap.Logger
}

// New creates a client for the backend at baseURL. The session supplies the
// bearer token; requests without a signed-in session are sent unauthenticated
// and the backend's 401 is surfaced as a sign-in-required error.
func New(baseURL string, session *auth.Session, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		session: session,
		logger:  logger,
	}, nil
}

// do issues a single request and decodes a JSON response into out (out may
// be nil for calls whose body is ignored). There is no automatic retry:
// mutations are side-effecting and must not be replayed implicitly.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u := *c.base
	joined, err := url.JoinPath(c.base.Path, path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	u.Path = joined
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", path, err)
	}
	return c.do(ctx, method, path, nil, buf, "application/json", out)
}

// decodeError extracts the server's message from an error body. The backend
// answers errors as {"message": "..."}; anything else falls back to the
// status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
