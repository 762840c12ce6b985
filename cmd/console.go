package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/etnz/coinvest/capital"
	"github.com/etnz/coinvest/renderer"
	"github.com/etnz/coinvest/search"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type consoleCmd struct {
	display
	metricsAddr string
}

func (*consoleCmd) Name() string     { return "console" }
func (*consoleCmd) Synopsis() string { return "edit the co-owners of an account interactively" }
func (*consoleCmd) Usage() string {
	return `coinvest console [-metrics-addr <addr>] <account id>

Opens the co-owners page of the account. Lines not starting with ':' are typed
in the investor search box. Commands:

  :add <investor id>          add a co-owner
  :set <co-owner id> <value>  change a capital, lowered to what is left if needed
  :share <co-owner id> <value> change a default share
  :save                       save all changes
  :apply                      save all changes and recalculate the operations
  :show                       show the co-owners
  :quit                       leave
`
}

func (c *consoleCmd) SetFlags(f *flag.FlagSet) {
	c.display.SetFlags(f)
	f.StringVar(&c.metricsAddr, "metrics-addr", "", "serve the client metrics on this address (e.g. localhost:9090)")
}

func (c *consoleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, client, e, status := loadEditor(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}

	if c.metricsAddr != "" {
		srv := &http.Server{Addr: c.metricsAddr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "addr", c.metricsAddr, "error", err)
			}
		}()
		defer srv.Close()
		slog.Info("Serving metrics", "addr", c.metricsAddr)
	}

	s := newConsole(e, search.New(client, search.WithDelay(cfg.SearchDelay)), cfg.Currency, os.Stdout)
	s.print = func(md string) {
		if err := c.print(md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	defer s.close()

	s.show()
	if err := s.run(ctx, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// console is an interactive session on the co-owners page of an account.
type console struct {
	editor   *capital.Editor
	searcher *search.Searcher
	currency string

	mu    sync.Mutex // serializes the output
	out   io.Writer
	print func(md string)
}

func newConsole(e *capital.Editor, s *search.Searcher, currency string, out io.Writer) *console {
	c := &console{editor: e, searcher: s, currency: currency, out: out}
	c.print = func(md string) { io.WriteString(c.out, md) }
	s.OnChange(func(results []search.Result) {
		if len(results) == 0 {
			return
		}
		c.printf("%s", renderer.SearchResults(s.Text(), results, nil))
	})
	s.OnError(func(text string, err error) {
		c.printf("%s", renderer.SearchResults(text, nil, err))
	})
	return c
}

func (c *console) close() { c.searcher.Close() }

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	md := fmt.Sprintf(format, args...)
	c.print(md)
}

func (c *console) show() {
	c.printf("%s", renderer.RenderCapital(c.editor.View(), c.currency))
}

// run handles the lines of 'r' until :quit or its end.
func (c *console) run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if quit := c.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	// input ended: answer the search still waiting.
	c.searcher.Flush(ctx)
	return scanner.Err()
}

// handle runs one console line. It returns true on :quit.
func (c *console) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		c.searcher.Type(line)
		return false
	}
	fields := strings.Fields(line)
	var err error
	switch cmd, args := fields[0], fields[1:]; cmd {
	case ":quit", ":q":
		return true
	case ":show":
		c.show()
	case ":save", ":apply":
		save := c.editor.Save
		if cmd == ":apply" {
			save = c.editor.SaveAndApply
		}
		// the search box may still be waiting: it has no effect on the save.
		if err = save(ctx); err == nil {
			c.printf("Saved.\n\n")
			c.show()
		}
	case ":add":
		var investor int64
		if investor, err = c.arg(args, 1, 0); err == nil {
			if err = c.editor.Add(ctx, investor); err == nil {
				c.searcher.Type("")
				c.show()
			}
		}
	case ":set", ":share":
		var id int64
		if id, err = c.arg(args, 2, 0); err != nil {
			break
		}
		if cmd == ":share" {
			err = c.editor.SetDefaultShare(id, args[1])
			break
		}
		var got string
		if got, err = c.editor.Change(id, args[1]); err == nil && got != args[1] {
			c.printf("Capital lowered to %s, remaining %s.\n\n", got, c.editor.Remaining().StringFixed(2))
		}
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		c.printf("%s\n", renderer.Alerts(err))
	}
	return false
}

// arg parses the id at index 'i' of 'args', which must have 'n' elements.
func (c *console) arg(args []string, n, i int) (int64, error) {
	if len(args) != n {
		return 0, fmt.Errorf("want %d arguments, got %d", n, len(args))
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return id, nil
}
