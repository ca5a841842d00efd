package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for each request. An empty token
// and nil error means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// HTTPClient talks JSON to the PenaltyBox backend.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	logger    logging.Logger
	requestID func() string

	mu    sync.RWMutex
	hooks []func(ctx context.Context)
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *HTTPClient) { c.requestID = fn }
}

// NewHTTPClient builds a client for baseURL. tokens may be nil.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		logger:    logging.Nop(),
		requestID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// OnUnauthorized registers fn to run whenever an authenticated call
// returns 401. Hooks run synchronously before the error is returned.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

func (c *HTTPClient) fireUnauthorized(ctx context.Context) {
	c.mu.RLock()
	hooks := append([]func(context.Context){}, c.hooks...)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx)
	}
}

// request describes one call. body is JSON-encoded unless raw is set.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
	// credentialCall marks login/registration, where a 401 means bad
	// credentials rather than an expired session.
	credentialCall bool
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *HTTPClient) authHeader(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return "", nil
	}
	return common.BearerPrefix + token, nil
}

// do sends r and decodes a 2xx JSON response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	rid := c.requestID()
	req.Header.Set(common.RequestIDHeader, rid)

	auth, err := c.authHeader(ctx)
	if err != nil {
		return err
	}
	if auth != "" {
		req.Header.Set(common.AuthorizationHeader, auth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug(ctx, "api request failed", "method", r.method, "path", r.path, "request_id", rid, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "api request",
		"method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", rid, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, rid, payload)
		if resp.StatusCode == http.StatusUnauthorized && !r.credentialCall {
			c.fireUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *HTTPClient) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *HTTPClient) del(ctx context.Context, path string, body any) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path, body: body}, nil)
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
