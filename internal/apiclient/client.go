package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/addahub/addahub-web/internal/logging"
)

// Meta is the pagination block the backend attaches to list responses.
type Meta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"totalPage"`
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

// Client talks to the AddaHub REST backend. Every request carries the bearer
// token of the current session when one is known.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit caps outbound calls at rps with the given burst. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const DefaultTimeout = 15 * time.Second

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Meta, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

// Delete sends body as JSON when non-nil; the leave endpoint expects one.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, body, out)
	return err
}

// Do performs one request and decodes the envelope's data into out.
// It never retries.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (*Meta, error) {
	logger := logging.For(ctx)
	operation := method + " " + path
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordCall(time.Since(start), err)
		logger.LogError(operation, err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		recordCall(duration, err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && env.Success != nil && !*env.Success) {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    env.Message,
		}
		recordCall(duration, apiErr)
		logger.LogWarn(operation, "backend rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("message", env.Message),
		)
		return nil, apiErr
	}
	recordCall(duration, nil)

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", decodeErr)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s data: %w", operation, err)
		}
	}

	logger.LogDebug(operation, "backend call completed", slog.Duration("duration", duration))
	return env.Meta, nil
}

func (c *Client) token(ctx context.Context) string {
	if t := TokenFromContext(ctx); t != "" {
		return t
	}
	if c.tokens != nil {
		return c.tokens.Token(ctx)
	}
	return ""
}
