// Package search implements the as-you-type investor lookup.
//
// Keystrokes are debounced: a lookup starts only after the text has been
// left alone for the configured delay, and every keystroke cancels the
// lookup still waiting to start. A lookup already sent is never canceled, but
// its answer is dropped if newer text was typed meanwhile.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/etnz/coinvest"
)

// DefaultDelay is the quiet period before a lookup is sent.
const DefaultDelay = 500 * time.Millisecond

// Finder looks investors up by name.
type Finder interface {
	SearchInvestors(ctx context.Context, text string) ([]coinvest.Investor, error)
}

// Result is one rendered search result: the label shown and the investor it
// stands for. Picking it is handled by the caller (see capital.Editor.Add).
type Result struct {
	ID    int64
	Label string
}

// Timer is a scheduled function that can be stopped before it runs.
type Timer interface {
	Stop() bool
}

// Scheduler runs 'f' after 'd'. time.AfterFunc is the default.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Searcher.
type Option func(*Searcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option { return func(s *Searcher) { s.delay = d } }

// WithScheduler replaces the timer implementation.
func WithScheduler(sch Scheduler) Option { return func(s *Searcher) { s.schedule = sch } }

// Searcher is the state of one search box and its result area.
type Searcher struct {
	finder   Finder
	delay    time.Duration
	schedule Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	text     string
	gen      uint64 // incremented by every keystroke
	timer    Timer
	pending  func() // the lookup 'timer' will run
	results  []Result
	err      error
	onChange func([]Result)
	onError  func(text string, err error)
}

// New returns a Searcher using 'finder'.
func New(finder Finder, opts ...Option) *Searcher {
	s := &Searcher{finder: finder, delay: DefaultDelay, schedule: afterFunc}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// OnChange registers 'f' to be called with the new results every time they
// change. 'f' is called without the Searcher lock held.
func (s *Searcher) OnChange(f func([]Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

// OnError registers 'f' to be called when the lookup of 'text' fails. The
// results are left as they were. 'f' is called without the Searcher lock
// held.
func (s *Searcher) OnError(f func(text string, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = f
}

// Type handles the new content of the search box.
//
// Any lookup waiting to start is canceled. Blank text clears the results
// right away without a request, otherwise a lookup is scheduled.
func (s *Searcher) Type(text string) {
	s.mu.Lock()
	s.text = text
	s.gen++
	s.stopLocked()

	if strings.TrimSpace(text) == "" {
		s.err = nil
		notify := s.setResultsLocked(nil)
		s.mu.Unlock()
		notify()
		return
	}

	gen := s.gen
	lookup := func() { s.lookup(s.ctx, gen, text) }
	s.pending = lookup
	s.timer = s.schedule(s.delay, func() {
		s.mu.Lock()
		if s.gen != gen || s.pending == nil {
			s.mu.Unlock()
			return
		}
		s.pending, s.timer = nil, nil
		s.mu.Unlock()
		lookup()
	})
	s.mu.Unlock()
}

// Flush runs the pending lookup now, if any, and waits for its answer.
func (s *Searcher) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	gen, text := s.gen, s.text
	s.stopLocked()
	s.mu.Unlock()
	s.lookup(ctx, gen, text)
}

// Text returns the current content of the search box.
func (s *Searcher) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Results returns the rendered results.
func (s *Searcher) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

// Err returns the error of the last lookup, nil if it succeeded.
func (s *Searcher) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels the pending lookup and the lookups in flight.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
	s.cancel()
}

// lookup queries the finder and renders the answer if 'gen' is still the
// latest keystroke.
func (s *Searcher) lookup(ctx context.Context, gen uint64, text string) {
	investors, err := s.finder.SearchInvestors(ctx, text)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		slog.Debug("Stale search answer dropped", "text", text)
		return
	}
	if err != nil {
		// results are left as they are.
		s.err = err
		onError := s.onError
		s.mu.Unlock()
		slog.Warn("Investor search failed", "text", text, "error", err)
		if onError != nil {
			onError(text, err)
		}
		return
	}
	s.err = nil
	notify := s.setResultsLocked(Render(investors))
	s.mu.Unlock()
	notify()
}

// stopLocked cancels the lookup waiting to start.
func (s *Searcher) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer, s.pending = nil, nil
}

// setResultsLocked replaces the results and returns the notification to call
// once the lock is released.
func (s *Searcher) setResultsLocked(results []Result) func() {
	s.results = results
	f := s.onChange
	if f == nil {
		return func() {}
	}
	copied := append([]Result(nil), results...)
	return func() { f(copied) }
}

// Render maps investors to results, one per investor, labeled with its
// username.
func Render(investors []coinvest.Investor) []Result {
	results := make([]Result, 0, len(investors))
	for _, inv := range investors {
		results = append(results, Result{ID: inv.ID, Label: inv.Username})
	}
	return results
}
