package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dbassistant/metrics"
	"dbassistant/models"

	"github.com/rs/zerolog"
)

const (
	AskPath       = "/api/ask"
	DatabasesPath = "/api/databases"
	HealthPath    = "/health"
)

// TransportError is returned when a call produced no usable response: the
// backend was unreachable, answered with a non-2xx status, or sent a body
// that could not be decoded.
type TransportError struct {
	Endpoint      string
	StatusCode    int    // 0 when no response was received
	ServerMessage string // "error" field of a failure body, if any
	Err           error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("backend request %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.ServerMessage != "" {
		msg += ": " + e.ServerMessage
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the analytics backend. Every endpoint is resolved against
// the same base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    metrics.Collector
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL. No timeout is set on the default
// transport; callers bound calls through the context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		metrics:    metrics.NewNoOpCollector(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ask sends one question. Whatever the body's success flag says, a decoded
// 2xx response is returned without error.
func (c *Client) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	var resp models.AskResponse
	if err := c.do(ctx, http.MethodPost, AskPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Databases fetches the catalog of selectable databases.
func (c *Client) Databases(ctx context.Context) (*models.DatabasesResponse, error) {
	var resp models.DatabasesResponse
	if err := c.do(ctx, http.MethodGet, DatabasesPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := c.do(ctx, http.MethodGet, HealthPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, "error", start)
		c.logger.Debug().Err(err).Str("endpoint", path).Msg("backend unreachable")
		return &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	c.observe(path, strconv.Itoa(resp.StatusCode), start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().Str("endpoint", path).Int("status", resp.StatusCode).Msg("backend returned failure status")
		return &TransportError{
			Endpoint:      path,
			StatusCode:    resp.StatusCode,
			ServerMessage: serverMessage(respBody),
			Err:           fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Endpoint: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return nil
}

func (c *Client) observe(path, status string, start time.Time) {
	c.metrics.ObserveBackendCall(path, status, time.Since(start).Seconds())
}

// serverMessage pulls the "error" field out of a failure body.
func serverMessage(body []byte) string {
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return ""
	}
	return errorResp.Error
}
