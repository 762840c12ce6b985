package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/coinvest"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv unsets the variables read by Load for the duration of the test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"COINVEST_BASE_URL", "COINVEST_CSRF_TOKEN", "COINVEST_SESSION_ID",
		"COINVEST_SESSION_FILE", "COINVEST_CURRENCY", "COINVEST_USER_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := load("", filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.SearchDelay != 500*time.Millisecond {
		t.Errorf("SearchDelay = %v, want 500ms", cfg.SearchDelay)
	}
}

func TestLoad_Layers(t *testing.T) {
	clearEnv(t)
	yml := writeFile(t, "coinvest.yaml", `
base_url: https://coinvest.example.com
currency: EUR
search_delay: 250ms
user_id: 4
`)
	dotenv := writeFile(t, ".env", "COINVEST_CSRF_TOKEN=from-dotenv\nCOINVEST_CURRENCY=USD\n")
	t.Setenv("COINVEST_CURRENCY", "CHF")

	cfg, err := load(yml, dotenv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	want := Default()
	want.BaseURL = "https://coinvest.example.com"
	want.SearchDelay = 250 * time.Millisecond
	want.UserID = 4
	want.CSRFToken = "from-dotenv"
	want.Currency = "CHF" // the environment wins over .env
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("load() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Session().CSRFToken; got != "from-dotenv" {
		t.Errorf("Session().CSRFToken = %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	yml := writeFile(t, "coinvest.yaml", "base_url: not a url\ncurrency: EURO\n")
	_, err := load(yml, filepath.Join(t.TempDir(), "none.env"))
	verr, ok := coinvest.AsValidationError(err)
	if !ok {
		t.Fatalf("load() error = %v, want a validation error", err)
	}
	if diff := cmp.Diff([]string{"base_url", "currency"}, verr.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BadUserID(t *testing.T) {
	clearEnv(t)
	t.Setenv("COINVEST_USER_ID", "bob")
	if _, err := load("", filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Error("load() accepted a non numeric user id")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	yml := writeFile(t, "coinvest.yaml", "timeout: [1\n")
	if _, err := load(yml, filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Error("load() accepted malformed YAML")
	}
}

func TestSessionPath(t *testing.T) {
	cfg := Default()
	cfg.SessionFile = "/tmp/session"
	if got, _ := cfg.SessionPath(); got != "/tmp/session" {
		t.Errorf("SessionPath() = %q", got)
	}
}
