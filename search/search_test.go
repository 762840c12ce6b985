package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/etnz/coinvest"
	"github.com/google/go-cmp/cmp"
)

// fakeTimer only runs when fired by its fakeClock.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) schedule(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// elapse runs every timer still scheduled, as if their delay elapsed.
func (c *fakeClock) elapse() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type fakeFinder struct {
	mu      sync.Mutex
	calls   []string
	answers map[string][]coinvest.Investor
	err     error
	during  func(text string) // called while the request is "in flight"
}

func (f *fakeFinder) SearchInvestors(_ context.Context, text string) ([]coinvest.Investor, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during(text)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.answers[text], nil
}

func newTestSearcher(finder *fakeFinder) (*Searcher, *fakeClock) {
	clock := &fakeClock{}
	return New(finder, WithScheduler(clock.schedule)), clock
}

var investors = map[string][]coinvest.Investor{
	"ab":  {{ID: 1, Username: "abby"}, {ID: 2, Username: "abe"}},
	"abc": {{ID: 3, Username: "abcde"}},
}

func TestSearcher_Debounce(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s, clock := newTestSearcher(finder)

	s.Type("ab")
	s.Type("abc")
	if len(finder.calls) != 0 {
		t.Fatalf("lookup sent before the delay: %v", finder.calls)
	}
	clock.elapse()

	if diff := cmp.Diff([]string{"abc"}, finder.calls); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}
	want := []Result{{ID: 3, Label: "abcde"}}
	if diff := cmp.Diff(want, s.Results()); diff != "" {
		t.Errorf("Results() mismatch (-want +got):\n%s", diff)
	}
	for _, timer := range clock.timers {
		if timer.d != DefaultDelay {
			t.Errorf("scheduled with delay %v, want %v", timer.d, DefaultDelay)
		}
	}
}

func TestSearcher_ClearIsSynchronous(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s, clock := newTestSearcher(finder)

	s.Type("ab")
	clock.elapse()
	if len(s.Results()) != 2 {
		t.Fatalf("Results() = %v, want 2 results", s.Results())
	}

	s.Type("abc") // pending, then cleared before it starts
	s.Type("")
	if got := s.Results(); len(got) != 0 {
		t.Errorf("Results() = %v right after clearing, want none", got)
	}
	clock.elapse()
	if diff := cmp.Diff([]string{"ab"}, finder.calls); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}

	s.Type("   ")
	clock.elapse()
	if len(finder.calls) != 1 {
		t.Errorf("blank text sent a lookup: %v", finder.calls)
	}
}

func TestSearcher_FailureKeepsResults(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s, clock := newTestSearcher(finder)
	var failed []string
	s.OnError(func(text string, err error) { failed = append(failed, text+": "+err.Error()) })

	s.Type("ab")
	clock.elapse()

	finder.err = errors.New("connection refused")
	s.Type("abc")
	clock.elapse()

	if len(s.Results()) != 2 {
		t.Errorf("Results() = %v, want the 2 previous results", s.Results())
	}
	if s.Err() == nil {
		t.Error("Err() = nil, want the lookup error")
	}
	if diff := cmp.Diff([]string{"abc: connection refused"}, failed); diff != "" {
		t.Errorf("OnError() calls mismatch (-want +got):\n%s", diff)
	}

	finder.err = nil
	s.Type("abc")
	clock.elapse()
	if s.Err() != nil {
		t.Errorf("Err() = %v after a successful lookup, want nil", s.Err())
	}
}

func TestSearcher_StaleAnswerDropped(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s, clock := newTestSearcher(finder)
	finder.during = func(text string) {
		if text == "ab" {
			s.Type("abc") // typed while "ab" is in flight
		}
	}

	s.Type("ab")
	clock.elapse() // sends "ab", whose answer arrives after "abc" was typed
	if got := s.Results(); len(got) != 0 {
		t.Errorf("Results() = %v, the stale answer should be dropped", got)
	}
	clock.elapse()
	want := []Result{{ID: 3, Label: "abcde"}}
	if diff := cmp.Diff(want, s.Results()); diff != "" {
		t.Errorf("Results() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearcher_Flush(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s, clock := newTestSearcher(finder)

	var notified [][]Result
	s.OnChange(func(r []Result) { notified = append(notified, r) })

	s.Flush(context.Background()) // nothing pending
	s.Type("ab")
	s.Flush(context.Background())
	clock.elapse() // the flushed lookup does not run twice

	if diff := cmp.Diff([]string{"ab"}, finder.calls); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}
	if len(notified) != 1 || len(notified[0]) != 2 {
		t.Errorf("OnChange notifications = %v, want one with 2 results", notified)
	}
}

func TestSearcher_RealTimer(t *testing.T) {
	finder := &fakeFinder{answers: investors}
	s := New(finder, WithDelay(5*time.Millisecond))
	defer s.Close()

	done := make(chan []Result, 1)
	s.OnChange(func(r []Result) { done <- r })
	s.Type("abc")

	select {
	case got := <-done:
		if len(got) != 1 || got[0].Label != "abcde" {
			t.Errorf("results = %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lookup never ran")
	}
}
