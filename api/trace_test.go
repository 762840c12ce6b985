package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	client, _ := newTestServer(t, http.StatusOK, `[{"id":7,"username":"abby"}]`, WithTrace())
	if _, err := client.SearchInvestors(context.Background(), "ab"); err != nil {
		t.Fatalf("SearchInvestors() unexpected error = %v", err)
	}

	logs := buf.String()
	for _, want := range []string{"HTTP request", "HTTP response", "abby", "<redacted>"} {
		if !strings.Contains(logs, want) {
			t.Errorf("trace logs miss %q:\n%s", want, logs)
		}
	}
	for _, secret := range []string{"sessionid=sess", "X-Csrftoken: tok"} {
		if strings.Contains(logs, secret) {
			t.Errorf("trace logs leak %q", secret)
		}
	}
}

func TestTrace_ResponseCookies(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "renewed-secret"})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)
	client, err := New(server.URL, WithTrace())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.SearchInvestors(context.Background(), "ab"); err != nil {
		t.Fatalf("SearchInvestors() unexpected error = %v", err)
	}
	if logs := buf.String(); strings.Contains(logs, "renewed-secret") {
		t.Errorf("trace logs leak the response cookie:\n%s", logs)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		dump string
		want string
	}{
		{
			dump: "GET /api/ HTTP/1.1\r\nHost: x\r\nX-Csrftoken: tok\r\nCookie: sessionid=s\r\n\r\n",
			want: "GET /api/ HTTP/1.1\r\nHost: x\r\nX-Csrftoken: <redacted>\r\nCookie: <redacted>\r\n\r\n",
		},
		{
			dump: "HTTP/1.1 200 OK\r\nSet-Cookie: sessionid=s; Path=/\r\nContent-Type: application/json\r\n\r\n[]",
			want: "HTTP/1.1 200 OK\r\nSet-Cookie: <redacted>\r\nContent-Type: application/json\r\n\r\n[]",
		},
	}
	for _, tt := range tests {
		if got := redact(tt.dump); got != tt.want {
			t.Errorf("redact(%q) = %q, want %q", tt.dump, got, tt.want)
		}
	}
}
