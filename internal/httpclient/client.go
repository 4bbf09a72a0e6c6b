package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dalfonso89/rolimons-bridge/internal/logger"

	"github.com/sirupsen/logrus"
)

// DefaultUserAgent identifies the bridge as a desktop application.
// Some upstream services vary behavior by client identity.
const DefaultUserAgent = "Mozilla/5.0 (Tauri)"

// Doer abstracts HTTP operations for dependency injection.
// The standard *http.Client satisfies this interface.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs single outbound GET requests for bridge commands.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	httpClient Doer
	userAgent  string
	logger     *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent overrides the User-Agent sent on every request
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New creates a client with a shared transport so connections are reused
// across invocations. No client timeout is set; the library defaults apply.
func New(logger *logger.Logger, options ...Option) *Client {
	httpTransport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	client := &Client{
		httpClient: &http.Client{Transport: httpTransport},
		userAgent:  DefaultUserAgent,
		logger:     logger,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Get fetches url and returns the body as text when the status is 2xx
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	request.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"url":     url,
			"latency": time.Since(start),
		}).Debugf("Upstream request failed: %v", err)
		return "", &TransportError{Err: err}
	}
	defer response.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"url":     url,
		"status":  response.StatusCode,
		"latency": time.Since(start),
	}).Debug("Upstream request completed")

	if response.StatusCode < 200 || response.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, response.Body)
		return "", &StatusError{StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	return string(body), nil
}
