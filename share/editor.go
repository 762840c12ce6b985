// Package share implements the inline editor of operation shares.
//
// Every share is displayed as a "<investor>: <value>" label. Activating a
// label swaps it for an input, and leaving the input saves it and swaps the
// label back.
package share

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/inflight"
	"github.com/shopspring/decimal"
)

// Client is the part of the API the editor needs.
type Client interface {
	UpdateShare(ctx context.Context, id int64, value decimal.Decimal) (coinvest.OperationShare, error)
	Shares(ctx context.Context, operation int64) ([]coinvest.OperationShare, error)
}

// State is the display state of one share.
type State int

const (
	Display State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Display:
		return "display"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type entry struct {
	record coinvest.OperationShare
	state  State
	input  string
}

// Editor holds the shares of the page, in their load order.
type Editor struct {
	client Client
	busy   inflight.Set[int64]

	mu      sync.Mutex
	order   []int64
	entries map[int64]*entry
}

// NewEditor returns an editor displaying 'records'.
func NewEditor(client Client, records ...coinvest.OperationShare) *Editor {
	e := &Editor{client: client}
	e.set(records)
	return e
}

// Load replaces the records with the shares of 'operation'.
func (e *Editor) Load(ctx context.Context, operation int64) error {
	records, err := e.client.Shares(ctx, operation)
	if err != nil {
		return err
	}
	e.set(records)
	return nil
}

func (e *Editor) set(records []coinvest.OperationShare) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = make([]int64, 0, len(records))
	e.entries = make(map[int64]*entry, len(records))
	for _, r := range records {
		e.order = append(e.order, r.ID)
		e.entries[r.ID] = &entry{record: r}
	}
}

// Activate opens the input of share 'id', prefilled with its value. It
// returns false if the input is already open.
func (e *Editor) Activate(id int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.entryLocked(id)
	if err != nil {
		return false, err
	}
	if en.state == Editing {
		return false, nil
	}
	en.state = Editing
	en.input = coinvest.FormatAmount(en.record.Value)
	return true, nil
}

// Type sets the content of the open input of share 'id'.
func (e *Editor) Type(id int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, err := e.entryLocked(id)
	if err != nil {
		return err
	}
	if en.state != Editing {
		return fmt.Errorf("share %d is not being edited", id)
	}
	en.input = text
	return nil
}

// Blur leaves the input of share 'id' and saves its value.
//
// On success the share is displayed again with the value the server
// returned. On failure the input stays open with its text, and the error is
// returned: a *coinvest.ValidationError carries one alert per field.
// Blurring a share that is not being edited does nothing.
func (e *Editor) Blur(ctx context.Context, id int64) error {
	e.mu.Lock()
	en, err := e.entryLocked(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if en.state != Editing {
		e.mu.Unlock()
		return nil
	}
	input, record := en.input, en.record
	e.mu.Unlock()

	value, err := coinvest.ParseAmount(input)
	if err != nil {
		verr := &coinvest.ValidationError{}
		verr.Add("value", "A valid number is required.")
		return verr
	}

	release, err := e.busy.Acquire(id)
	if err != nil {
		return err
	}
	defer release()

	updated, err := e.client.UpdateShare(ctx, id, value)
	if err != nil {
		slog.Warn("Share update failed", "share", id, "value", value, "error", err)
		return err
	}
	if updated.ID == 0 {
		// the server answered without a body.
		updated = record
		updated.Value = value
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.entries[id]; ok {
		if updated.InvestorName == "" {
			updated.InvestorName = cur.record.InvestorName
		}
		cur.record = updated
		cur.state = Display
		cur.input = ""
	}
	return nil
}

// Label returns the text displayed for share 'id'.
func (e *Editor) Label(id int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.entries[id]
	if !ok {
		return ""
	}
	return Label(en.record)
}

// State returns the display state of share 'id'.
func (e *Editor) State(id int64) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.entries[id]; ok {
		return en.state
	}
	return Display
}

// Input returns the text of the open input of share 'id'.
func (e *Editor) Input(id int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.entries[id]; ok {
		return en.input
	}
	return ""
}

// Busy reports whether the update of share 'id' is in flight.
func (e *Editor) Busy(id int64) bool { return e.busy.Busy(id) }

// Records returns the shares in load order.
func (e *Editor) Records() []coinvest.OperationShare {
	e.mu.Lock()
	defer e.mu.Unlock()
	records := make([]coinvest.OperationShare, 0, len(e.order))
	for _, id := range e.order {
		records = append(records, e.entries[id].record)
	}
	return records
}

func (e *Editor) entryLocked(id int64) (*entry, error) {
	en, ok := e.entries[id]
	if !ok {
		return nil, fmt.Errorf("unknown share %d", id)
	}
	return en, nil
}

// Label renders a share as "<investor>: <value>" with two decimals.
func Label(s coinvest.OperationShare) string {
	name := s.InvestorName
	if name == "" {
		name = fmt.Sprintf("investor #%d", s.Investor)
	}
	return name + ": " + coinvest.FormatAmount(s.Value)
}
