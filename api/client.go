// Package api is the HTTP client of the co-owned investment account service.
//
// Every request carries the session credentials (CSRF token and session
// cookie) captured once when the Client is created. Failures are reported as
// a *TransportError when the server could not be reached, and as a
// *coinvest.ValidationError when the server answered with an error status.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the service API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	session Session
	metrics *Metrics
	timeout time.Duration
	trace   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSession sets the credentials sent with every request.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// WithMetrics instruments the client transport.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for the service at 'baseURL' (scheme and host, plus an
// optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	c := &Client{base: u, http: new(http.Client)}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics != nil || c.trace {
		// copy, so that a shared http.Client is not instrumented twice.
		hc := *c.http
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		if c.trace {
			next = &traceTransport{base: next}
		}
		if c.metrics != nil {
			next = c.metrics.InstrumentRoundTripper(next)
		}
		hc.Transport = next
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.base.String() }

// endpoint returns the absolute url of 'path' with 'query'.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do executes a JSON request. 'in' is the request body (nil for none), 'out'
// receives the decoded response (nil to discard it).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("cannot create http request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.session.apply(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("API request failed", "method", method, "path", path, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	// reading in a buffer to be able to decode error bodies too.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("cannot read http body: %w", err)}
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= 300 {
		err := decodeError(resp.StatusCode, buf.Bytes())
		slog.Warn("API error", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return err
	}
	if out == nil || buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("cannot decode %s %s response: %w", method, path, err)
	}
	return nil
}
