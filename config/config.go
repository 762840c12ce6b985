// Package config loads the settings of the coinvest commands.
//
// Settings are read, in increasing priority, from built-in defaults, a YAML
// file, a .env file in the working directory, and COINVEST_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/api"
	"github.com/etnz/coinvest/search"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the coinvest settings.
type Config struct {
	BaseURL     string        `yaml:"base_url" json:"base_url" validate:"required,http_url"`
	CSRFToken   string        `yaml:"csrf_token" json:"csrf_token"`
	SessionID   string        `yaml:"session_id" json:"session_id"`
	SessionFile string        `yaml:"session_file" json:"session_file"`
	UserID      int64         `yaml:"user_id" json:"user_id" validate:"gte=0"`
	Currency    string        `yaml:"currency" json:"currency" validate:"required,len=3"`
	SearchDelay time.Duration `yaml:"search_delay" json:"search_delay" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     "http://localhost:8000",
		Currency:    "RUB",
		SearchDelay: search.DefaultDelay,
		Timeout:     15 * time.Second,
	}
}

// Load returns the settings read from the YAML file 'path' and the
// environment. Missing files are skipped, 'path' may be empty.
func Load(path string) (Config, error) {
	return load(path, ".env")
}

func load(path, dotenv string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("cannot read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
			}
		}
	}

	// variables already set win over the .env file.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("cannot load %s: %w", dotenv, err)
	}
	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}

	if err := coinvest.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) fromEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("COINVEST_BASE_URL", &c.BaseURL)
	setString("COINVEST_CSRF_TOKEN", &c.CSRFToken)
	setString("COINVEST_SESSION_ID", &c.SessionID)
	setString("COINVEST_SESSION_FILE", &c.SessionFile)
	setString("COINVEST_CURRENCY", &c.Currency)
	if v, ok := os.LookupEnv("COINVEST_USER_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid COINVEST_USER_ID %q: %w", v, err)
		}
		c.UserID = id
	}
	return nil
}

// Session returns the credentials set in the config.
func (c Config) Session() api.Session {
	return api.Session{CSRFToken: c.CSRFToken, SessionID: c.SessionID}
}

// SessionPath returns where 'coinvest login' stores the session.
func (c Config) SessionPath() (string, error) {
	if c.SessionFile != "" {
		return c.SessionFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate the session file: %w", err)
	}
	return filepath.Join(dir, "coinvest", "session"), nil
}
