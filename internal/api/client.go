// Package api is a typed client for the budgeting service's REST API.
//
// Every call funnels through Client.Request, which builds the URL and query
// string, attaches auth headers, encodes the body and turns the response into
// either a Result or an *Error. The client never retries; callers decide
// their own retry policy (see IsTransient).
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.saturation.io/api/v1"

// DefaultUserAgent identifies this client to the API.
const DefaultUserAgent = "topsheet-go"

// Header names sent with every request.
const (
	HeaderAPIKey      = "X-API-Key"
	HeaderWorkspaceID = "X-Workspace-ID"
	HeaderRequestID   = "X-Request-ID"
)

// ErrMissingCredentials is returned when neither an API key nor a bearer
// token with workspace id is configured.
var ErrMissingCredentials = errors.New("missing API credentials")

// Config holds the client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	BearerToken       string
	WorkspaceID       string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Validate ensures a usable auth method is configured.
func (c Config) Validate() error {
	if c.APIKey == "" && c.BearerToken == "" {
		return fmt.Errorf("%w: set an API key or a bearer token", ErrMissingCredentials)
	}
	if c.APIKey == "" && c.WorkspaceID == "" {
		return fmt.Errorf("%w: bearer token auth requires a workspace id", ErrMissingCredentials)
	}
	return nil
}

// Client talks to the budgeting API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rateLimiter
	logger     *slog.Logger
	headers    http.Header
	baseURL    string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	headers := make(http.Header)
	if cfg.APIKey != "" {
		headers.Set(HeaderAPIKey, cfg.APIKey)
	} else {
		headers.Set("Authorization", "Bearer "+cfg.BearerToken)
		headers.Set(HeaderWorkspaceID, cfg.WorkspaceID)
	}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", userAgent)

	c := &Client{
		baseURL: baseURL,
		headers: headers,
		logger:  slog.Default().With("component", "api"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	if cfg.RequestsPerMinute > 0 {
		c.limiter = newRateLimiter(cfg.RequestsPerMinute)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases background resources held by the client.
func (c *Client) Close() {
	if c.limiter != nil {
		c.limiter.Close()
	}
}
