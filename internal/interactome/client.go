// Package interactome fetches per-module artifacts from the interactome
// network service and lays them out as a run directory.
package interactome

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is where the service listens when run locally.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds each request. Module endpoints rebuild the
	// network server-side, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is requests per second when no polite delay is set.
	DefaultRateLimit = 5.0

	// MaxResponseBytes caps a single artifact body.
	MaxResponseBytes = 64 << 20
)

// Client is a rate-limited HTTP client for the interactome service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the service root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPoliteDelay spaces requests at least d apart. Zero or negative
// disables limiting.
func WithPoliteDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger for request tracing and skipped artifacts.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new interactome service client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(endpoint string, resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Message:    errorDetail(resp.Body, resp.StatusCode),
	}
}

// errorDetail extracts the "detail" field the service puts in error bodies.
func errorDetail(body io.Reader, status int) string {
	data, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(payload.Detail)
		return string(b)
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", status)
}

// get performs a rate-limited GET and returns the full body.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("interactome request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := checkHTTPErrors(endpoint, resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetworkError, endpoint, err)
	}
	return body, nil
}

// Health checks that the service is reachable.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, "/health", nil)
	return err
}

// Params are the network-building query parameters shared by every
// module endpoint.
type Params struct {
	Seeds   []string
	Sources []string
	MinSize int
	TopHubs int
}

// DefaultSources are the interaction sources queried when none are given.
var DefaultSources = []string{"string_ppi", "encori_rbp_by_target"}

// Default query values.
const (
	DefaultMinSize = 3
	DefaultTopHubs = 20
)

// Validate checks the parameters the service would reject.
func (p Params) Validate() error {
	if len(p.Seeds) == 0 {
		return fmt.Errorf("at least one seed gene is required")
	}
	if p.MinSize < 0 || p.MinSize > 50 {
		return fmt.Errorf("min size %d out of range 1-50", p.MinSize)
	}
	if p.TopHubs != 0 && (p.TopHubs < 5 || p.TopHubs > 100) {
		return fmt.Errorf("top hubs %d out of range 5-100", p.TopHubs)
	}
	return nil
}

// Query encodes the parameters for community cid. Seeds repeat as
// ?seed=A&seed=B; sources are comma-joined.
func (p Params) Query(cid int) url.Values {
	q := url.Values{}
	for _, s := range p.Seeds {
		if s = strings.TrimSpace(s); s != "" {
			q.Add("seed", s)
		}
	}
	sources := p.Sources
	if len(sources) == 0 {
		sources = DefaultSources
	}
	q.Set("sources", strings.Join(sources, ","))

	minSize := p.MinSize
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	q.Set("min_size", strconv.Itoa(minSize))
	q.Set("cid", strconv.Itoa(cid))
	return q
}
