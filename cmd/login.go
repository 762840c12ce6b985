package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/coinvest/api"
	"github.com/google/subcommands"
)

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	*h = append(*h, value)
	return nil
}

type loginCmd struct {
	csrf      string
	sessionID string
	headers   headerFlags
	// ignored flags, for curl compatibility
	curl string
	body string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "stores the session credentials of the web application" }
func (*loginCmd) Usage() string {
	return `coinvest login -csrf <token> -session-id <id>
coinvest login -H <header1> -H <header2> ...

Stores the credentials of a browser session for use by the other commands.
They can be given explicitly, or as the headers of a request copied as curl
from the browser: the X-CSRFToken header and the Cookie header carrying the
sessionid and csrftoken cookies.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csrf, "csrf", "", "CSRF token")
	f.StringVar(&c.sessionID, "session-id", "", "session cookie value")
	f.Var(&c.headers, "H", "Header of a request copied from the browser (can be specified multiple times)")
	f.StringVar(&c.curl, "curl", "", "ignored, for curl compatibility")
	f.StringVar(&c.body, "b", "", "ignored, for curl compatibility")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := c.session()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if session.IsZero() {
		fmt.Fprintln(os.Stderr, "Error: -csrf and -session-id, or -H flags are required.")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	path, err := cfg.SessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create the session directory: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := session.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save the session: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("✅ Session credentials stored in %s.\n", path)
	return subcommands.ExitSuccess
}

// session returns the credentials given on the command line, explicit flags
// winning over headers.
func (c *loginCmd) session() (api.Session, error) {
	s := api.Session{CSRFToken: c.csrf, SessionID: c.sessionID}
	if len(c.headers) == 0 {
		return s, nil
	}
	for _, h := range c.headers {
		if !strings.Contains(h, ":") {
			return s, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
	}
	fromHeaders, err := api.ParseSession(strings.NewReader(strings.Join(c.headers, "\n")))
	if err != nil {
		return s, err
	}
	return s.Merge(fromHeaders), nil
}
