package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/idgen"
)

// RequestIDHeader carries the client-generated request id.
const RequestIDHeader = "X-Request-ID"

// HTTPClient talks to the HRMS REST API rooted at {BASE_URL}/{API_PREFIX}.
type HTTPClient struct {
	baseURL    string
	tokens     credentials.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTokenSource sets where the bearer token is read from. The source is
// consulted on every request.
func WithTokenSource(ts credentials.TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithTimeout bounds each request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient creates a client targeting baseURL, which already includes
// the API prefix (e.g. "http://localhost:5000/api").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     credentials.StaticToken(""),
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// doJSON performs an authenticated request with an optional JSON body and
// decodes the JSON response into result. If result is nil the body is
// discarded. If result is *json.RawMessage the raw body is stored.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	return c.send(ctx, method, path, body, result, true)
}

// doJSONAnonymous is doJSON without the Authorization header (login).
func (c *HTTPClient) doJSONAnonymous(ctx context.Context, method, path string, body any, result any) error {
	return c.send(ctx, method, path, body, result, false)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body any, result any, auth bool) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	reqID := idgen.MustRequestID()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if result == nil {
		return nil
	}
	if raw, ok := result.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Health calls GET {base}/health and returns the reported status.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.doJSONAnonymous(ctx, http.MethodGet, "health", nil, &resp); err != nil {
		return "", err
	}
	if resp.Status == "" {
		resp.Status = resp.Message
	}
	return resp.Status, nil
}
