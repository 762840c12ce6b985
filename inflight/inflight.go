// Package inflight guards mutating actions while their request is outstanding.
//
// It is the headless version of disabling a submit button for the duration of
// its request: a second trigger is refused instead of issuing an overlapping
// request.
package inflight

import (
	"errors"
	"sync"
)

// ErrBusy is returned when an action is triggered while a previous one is
// still in flight.
var ErrBusy = errors.New("a request is already in flight")

// Guard is held for the duration of one request. The zero value is ready to
// use.
type Guard struct {
	mu   sync.Mutex
	busy bool
}

// Acquire marks the guard busy and returns the function releasing it.
// It returns ErrBusy if the guard is already held.
func (g *Guard) Acquire() (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return nil, ErrBusy
	}
	g.busy = true
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.busy = false
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether a request is in flight, for rendering a disabled control.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Set is a family of guards keyed by record, so that two different records
// can be edited concurrently while one record cannot.
type Set[K comparable] struct {
	mu     sync.Mutex
	guards map[K]*Guard
}

// Acquire acquires the guard of 'key'.
func (s *Set[K]) Acquire(key K) (release func(), err error) {
	return s.guard(key).Acquire()
}

// Busy reports whether the guard of 'key' is held.
func (s *Set[K]) Busy(key K) bool {
	return s.guard(key).Busy()
}

func (s *Set[K]) guard(key K) *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guards == nil {
		s.guards = make(map[K]*Guard)
	}
	g, ok := s.guards[key]
	if !ok {
		g = new(Guard)
		s.guards[key] = g
	}
	return g
}
