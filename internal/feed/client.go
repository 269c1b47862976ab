// Package feed talks to the single remote endpoint behind every widget
// action. Actions are selected with the fn query parameter.
package feed

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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNotConfigured is returned when no base URL was supplied.
	ErrNotConfigured = errors.New("feed base not configured")

	// ErrTransport covers every failure to obtain a readable JSON reply:
	// unreachable endpoint, non-2xx status, unreadable body or invalid JSON.
	ErrTransport = errors.New("feed transport failure")

	// ErrMalformed means the reply was JSON but not of the expected shape.
	ErrMalformed = errors.New("feed reply malformed")
)

// Client calls the feed endpoint
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	duration   metric.Float64Histogram
}

// NewClient creates a client for baseURL. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if tracer == nil || meter == nil {
		return nil, fmt.Errorf("tracer and meter cannot be nil")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed base %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid feed base %q: scheme must be http or https", baseURL)
	}

	histogram, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		base:       base,
		httpClient: httpClient,
		logger:     logger,
		tracer:     tracer,
		duration:   histogram,
	}, nil
}

// Chat posts one chat message.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var resp ChatResponse
	err := c.do(ctx, http.MethodPost, FnChat, nil, req, &resp)
	return resp, err
}

// Escalate posts a call-back request.
func (c *Client) Escalate(ctx context.Context, req EscalateRequest) (EscalateResponse, error) {
	var resp EscalateResponse
	err := c.do(ctx, http.MethodPost, FnEscalate, nil, req, &resp)
	return resp, err
}

// Contact posts a contact-form submission.
func (c *Client) Contact(ctx context.Context, req ContactRequest) (ContactResponse, error) {
	var resp ContactResponse
	err := c.do(ctx, http.MethodPost, FnContact, nil, req, &resp)
	return resp, err
}

// Feed fetches the live content feed, bypassing caches.
func (c *Client) Feed(ctx context.Context) (FeedResponse, error) {
	var resp FeedResponse
	err := c.do(ctx, http.MethodGet, FnFeed, nil, nil, &resp)
	return resp, err
}

// Nearest looks up members near a ZIP code (or its first three digits).
func (c *Client) Nearest(ctx context.Context, zip string) (NearestResponse, error) {
	var resp NearestResponse
	err := c.do(ctx, http.MethodGet, FnNearest, url.Values{"zip": {zip}}, nil, &resp)
	return resp, err
}

// Endpoint returns the URL for fn with extra query parameters.
func (c *Client) Endpoint(fn string, params url.Values) string {
	u := *c.base
	q := u.Query()
	q.Set("fn", fn)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, fn string, params url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "feed_"+fn, trace.WithAttributes(
		attribute.String("feed.fn", fn),
		attribute.String("http.request.method", method),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint(fn, params), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	c.duration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("feed.fn", fn)))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: API error: %s", ErrTransport, resp.Status)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: response is not JSON", ErrTransport)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c.logger.Debug("feed call completed", "fn", fn, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
