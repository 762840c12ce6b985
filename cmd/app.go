// Package cmd implements the coinvest command line: a headless client of the
// co-investment web application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/api"
	"github.com/etnz/coinvest/config"
	"github.com/etnz/coinvest/logging"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")

	c.Register(&searchCmd{}, "investors")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&accountCreateCmd{}, "accounts")
	c.Register(&accountDefaultCmd{}, "accounts")
	c.Register(&accountRemoveCmd{}, "accounts")

	c.Register(&coOwnersCmd{}, "co-owners")
	c.Register(&coOwnerAddCmd{}, "co-owners")
	c.Register(&capitalCmd{}, "co-owners")
	c.Register(&shareEditCmd{}, "co-owners")
	c.Register(&consoleCmd{}, "co-owners")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "coinvest.yaml", "Path to the YAML configuration file")
var traceHTTP = flag.Bool("trace", false, "Log every HTTP request and response (implies debug logs)")
var sessionFile = flag.String("session", "", "Path to the session file written by 'coinvest login' (defaults to the user config dir)")

// registry collects the client metrics of the command.
var registry = prometheus.NewRegistry()

var metrics = sync.OnceValue(func() *api.Metrics { return api.NewMetrics(registry) })

// loadConfig returns the configuration of the command.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if *sessionFile != "" {
		cfg.SessionFile = *sessionFile
	}
	return cfg, nil
}

// newClient returns the API client of the logged in user.
//
// Credentials set in the configuration take precedence over the stored
// session.
func newClient(cfg config.Config) (*api.Client, error) {
	session := cfg.Session()
	path, err := cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	stored, err := api.LoadSession(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !session.IsZero():
	case err != nil:
		return nil, err
	default:
		session = session.Merge(stored)
	}
	opts := []api.Option{
		api.WithSession(session),
		api.WithTimeout(cfg.Timeout),
		api.WithMetrics(metrics()),
	}
	if *traceHTTP {
		logging.SetupWithLevel(slog.LevelDebug)
		opts = append(opts, api.WithTrace())
	}
	slog.Debug("API client", "base_url", cfg.BaseURL, "session", path)
	return api.New(cfg.BaseURL, opts...)
}

// setup loads the configuration and the client, or reports why it could not.
func setup() (config.Config, *api.Client, subcommands.ExitStatus) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return cfg, nil, subcommands.ExitFailure
	}
	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, subcommands.ExitFailure
	}
	return cfg, client, subcommands.ExitSuccess
}

// report prints 'err' to stderr. Validation errors are printed one alert per
// line.
func report(w io.Writer, what string, err error) subcommands.ExitStatus {
	verr, ok := coinvest.AsValidationError(err)
	if !ok {
		fmt.Fprintf(w, "Error %s: %v\n", what, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(w, "Error %s:\n", what)
	for _, alert := range verr.Alerts() {
		fmt.Fprintf(w, "  %s\n", alert)
	}
	return subcommands.ExitFailure
}
