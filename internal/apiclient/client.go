package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/loader"
)

const (
	// DefaultUserAgent identifies roster to the public APIs.
	DefaultUserAgent = "roster/0.1"
	// DefaultTimeout bounds every request; the loader has no timeout of its own.
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-Id"
)

// Client performs JSON GET requests against a REST API rooted at a base URL
// and classifies failures into loader error kinds.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger
	timeout   time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is copied, so
// a later timeout never changes the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for request outcomes.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a Client for base, falling back to fallback when base is blank.
func New(base, fallback string, opts ...Option) (*Client, error) {
	u, err := ParseBaseURL(base, fallback)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c, nil
}

// BaseURL returns a copy of the API root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Get requests path (relative to the base URL) with the given query and
// decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	if c == nil {
		return loader.NewError(loader.KindInvalidRequest, errors.New("client is nil"))
	}
	reqURL := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}
	return c.do(ctx, reqURL, dest)
}

func (c *Client) do(ctx context.Context, reqURL *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return loader.NewError(loader.KindInvalidRequest, fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	logger := c.logger.With().Str("request_id", requestID).Str("url", reqURL.String()).Logger()
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("request failed")
		return loader.NewError(loader.KindTransport, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(started)).Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return loader.NewError(statusKind(resp.StatusCode),
			fmt.Errorf("api %s returned status %d", reqURL.Path, resp.StatusCode))
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return loader.NewError(loader.KindDecode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func statusKind(code int) loader.Kind {
	switch code {
	case http.StatusBadRequest:
		return loader.KindInvalidRequest
	case http.StatusNotFound:
		return loader.KindNotFound
	default:
		return loader.KindTransport
	}
}

// ParseBaseURL normalises an API root. A missing scheme defaults to https;
// query and fragment are dropped and the path is kept without a trailing slash.
func ParseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if trimmed == "" {
		return nil, errors.New("base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
