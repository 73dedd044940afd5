package wikiquery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "wikiquery/1.0 (https://www.mediawiki.org/wiki/API:Etiquette)"

// Client sends queries to a MediaWiki endpoint and decodes the replies.
// It performs exactly one attempt per call.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint sets the scheme and authority, e.g. "https://de.wikipedia.org".
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit spaces outgoing requests to at most rps per second. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		endpoint:   DefaultEndpoint,
		userAgent:  defaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the scheme and authority requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do builds q against the client's endpoint, sends it and decodes the
// reply. Server-reported errors come back as *APIError.
func (c *Client) Do(ctx context.Context, q *Query) (*Response, error) {
	req, err := q.BuildFor(ctx, c.endpoint)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(outcomeTransport, time.Since(start).Seconds())
		return nil, fmt.Errorf("send %s: %w", req.URL.RequestURI(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.observe(outcomeStatus, time.Since(start).Seconds())
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	out, err := DecodeReader(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.metrics.observe(outcomeAPI, elapsed.Seconds())
		} else {
			c.metrics.observe(outcomeDecode, elapsed.Seconds())
		}
		return nil, err
	}
	c.metrics.observe(outcomeOK, elapsed.Seconds())

	c.logger.Debug("query completed",
		"target", req.URL.RequestURI(),
		"duration", elapsed,
		"batchcomplete", out.BatchComplete,
		"continue", out.Continue != nil,
	)
	for module, msg := range out.Warnings.Messages() {
		c.logger.Warn("query warning", "module", module, "warning", msg)
	}
	return out, nil
}

// Title prepares a page title for use as a parameter value: spaces become
// underscores, which MediaWiki treats as equivalent.
func Title(title string) string {
	return strings.ReplaceAll(title, " ", "_")
}

// Escape percent-encodes value for use as a parameter value. Separators
// written by Append are not affected because Escape is applied per value.
func Escape(value string) string {
	return url.QueryEscape(value)
}
