package riskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 200 * time.Millisecond
	maxBackoff      = 2 * time.Second
)

// Client calls a remote flight risk API. Requests that fail in transport or
// get 503 (service warming up or timed out) are retried with backoff.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	attempts   int
	backoff    time.Duration
}

// NewClient creates an API client rooted at baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// WithRetry sets the total attempts per request and the first backoff delay.
// Attempts below 1 are treated as 1.
func (c *Client) WithRetry(attempts int, backoff time.Duration) *Client {
	c.attempts = max(attempts, 1)
	c.backoff = backoff
	return c
}

// Assess posts a reading to /api/calculate-risk and returns the report.
func (c *Client) Assess(ctx context.Context, reading domain.Reading) (domain.Report, error) {
	body, err := json.Marshal(reading)
	if err != nil {
		return domain.Report{}, fmt.Errorf("encode reading: %w", err)
	}

	var report domain.Report
	if err := c.doRequest(ctx, http.MethodPost, "/api/calculate-risk", body, &report); err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

// Factors fetches the remote registry table.
func (c *Client) Factors(ctx context.Context) ([]FactorInfo, error) {
	var resp struct {
		Factors []FactorInfo `json:"factors"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/factors", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Factors, nil
}

// FactorInfo is one row of the remote registry table.
type FactorInfo struct {
	Name        domain.Factor              `json:"name"`
	Weight      float64                    `json:"weight"`
	Description string                     `json:"description"`
	Universe    [2]float64                 `json:"universe"`
	Sets        map[string]domain.Triangle `json:"sets"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, out any) error {
	backoff := c.backoff
	for attempt := 1; ; attempt++ {
		err := c.send(ctx, method, path, body, out)
		if err == nil || attempt >= c.attempts || !retryable(ctx, err) {
			return err
		}
		c.logger.Warn("risk api request failed, retrying",
			"method", method, "path", path, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

func retryable(ctx context.Context, err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusServiceUnavailable
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && ctx.Err() == nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("risk api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-200 response from the risk API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("risk API error: status %d: %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
