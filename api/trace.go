package api

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
)

// traceTransport logs every request and response in full at the debug level.
type traceTransport struct {
	base http.RoundTripper
}

func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		slog.Debug("HTTP request", "dump", redact(string(dump)))
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		slog.Debug("HTTP request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}
	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		slog.Debug("HTTP response", "dump", redact(string(dump)))
	}
	return resp, nil
}

// redact hides the credentials of a dumped request or response.
func redact(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for i, line := range lines {
		name, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch http.CanonicalHeaderKey(name) {
		case "Cookie", "Set-Cookie", http.CanonicalHeaderKey(CSRFHeader):
			lines[i] = name + ": <redacted>"
		}
	}
	return strings.Join(lines, "\r\n")
}

// WithTrace logs the requests and responses of the client at the debug level,
// credentials excluded.
func WithTrace() Option {
	return func(c *Client) { c.trace = true }
}
