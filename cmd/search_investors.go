package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/etnz/coinvest/renderer"
	"github.com/etnz/coinvest/search"
	"github.com/google/subcommands"
)

type searchCmd struct {
	display
	wait bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search investors by username" }
func (*searchCmd) Usage() string {
	return `coinvest search [-wait] [-html] <text>

Looks investors up by username, the way the search box of the co-owners page
does. With -wait the text is typed one character at a time and the command
waits for the debounced lookup, otherwise the lookup is sent right away.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	c.display.SetFlags(f)
	f.BoolVar(&c.wait, "wait", false, "type the text and wait for the debounced lookup")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text := strings.Join(f.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Error: search text is required.")
		return subcommands.ExitUsageError
	}
	cfg, client, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}

	s := search.New(client, search.WithDelay(cfg.SearchDelay))
	defer s.Close()

	if c.wait {
		done := make(chan struct{}, 1)
		s.OnChange(func([]search.Result) {
			select {
			case done <- struct{}{}:
			default:
			}
		})
		for i, r := range text {
			s.Type(text[:i+utf8.RuneLen(r)])
		}
		select {
		case <-done:
		case <-time.After(cfg.SearchDelay + cfg.Timeout):
		case <-ctx.Done():
		}
	} else {
		s.Type(text)
		s.Flush(ctx)
	}

	if err := s.Err(); err != nil {
		return report(os.Stderr, "searching investors", err)
	}
	if err := c.print(renderer.SearchResults(text, s.Results(), nil)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
