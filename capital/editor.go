// Package capital implements the co-owner capital editor of an investment
// account.
//
// The editor mirrors the form: one row per co-owner with the raw text of its
// capital and default share inputs. While a capital input changes, it is
// clamped so that the capitals of all the co-owners never exceed the total
// capital of the account. All rows are then saved in a single batch update.
package capital

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/inflight"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the part of the API the editor needs.
type Client interface {
	InvestmentAccount(ctx context.Context, id uuid.UUID) (coinvest.InvestmentAccount, error)
	CoOwners(ctx context.Context, account uuid.UUID) ([]coinvest.CoOwner, error)
	UpdateCapital(ctx context.Context, updates map[int64]coinvest.CapitalUpdate, updateOperations bool) error
	AddCoOwner(ctx context.Context, investor int64, account uuid.UUID) (coinvest.CoOwner, error)
}

// Row is the form row of one co-owner.
type Row struct {
	CoOwnerID    int64
	Investor     int64
	Name         string
	IsCreator    bool
	Capital      string // raw input text
	DefaultShare string // raw input text
	Pending      bool   // Capital was typed but not committed yet
}

// View is a snapshot of the editor for rendering.
type View struct {
	Account   coinvest.InvestmentAccount
	Rows      []Row
	Allocated decimal.Decimal // sum of the rows' capital
	Remaining decimal.Decimal // what is left of the total capital
	Busy      bool            // a save is in flight
}

// Editor is the capital editor of one investment account.
type Editor struct {
	client Client
	guard  inflight.Guard

	mu      sync.Mutex
	account coinvest.InvestmentAccount
	rows    []Row
}

// NewEditor returns an editor for 'account' and its 'coOwners'.
func NewEditor(client Client, account coinvest.InvestmentAccount, coOwners []coinvest.CoOwner) *Editor {
	e := &Editor{client: client}
	e.set(account, coOwners)
	return e
}

// Load fetches the account 'id' and returns its editor.
func Load(ctx context.Context, client Client, id uuid.UUID) (*Editor, error) {
	e := &Editor{client: client, account: coinvest.InvestmentAccount{ID: id}}
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// set replaces the account and the rows.
func (e *Editor) set(account coinvest.InvestmentAccount, coOwners []coinvest.CoOwner) {
	rows := make([]Row, 0, len(coOwners))
	for _, co := range coOwners {
		rows = append(rows, Row{
			CoOwnerID:    co.ID,
			Investor:     co.Investor,
			Name:         co.Name(),
			IsCreator:    co.IsCreator,
			Capital:      co.Capital.String(),
			DefaultShare: co.DefaultShare.String(),
		})
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.account = account
	e.rows = rows
}

// Reload fetches the authoritative state of the account and its co-owners,
// discarding local edits.
func (e *Editor) Reload(ctx context.Context) error {
	id := e.Account().ID
	account, err := e.client.InvestmentAccount(ctx, id)
	if err != nil {
		return err
	}
	coOwners, err := e.client.CoOwners(ctx, id)
	if err != nil {
		return err
	}
	e.set(account, coOwners)
	return nil
}

// Account returns the edited account.
func (e *Editor) Account() coinvest.InvestmentAccount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account
}

// Rows returns a copy of the rows.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Row(nil), e.rows...)
}

// View returns a snapshot of the editor.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	allocated := e.sumLocked(-1)
	return View{
		Account:   e.account,
		Rows:      append([]Row(nil), e.rows...),
		Allocated: allocated,
		Remaining: e.account.TotalCapital.Sub(allocated),
		Busy:      e.guard.Busy(),
	}
}

// Remaining returns the capital not yet allocated to a co-owner.
func (e *Editor) Remaining() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account.TotalCapital.Sub(e.sumLocked(-1))
}

// Input records text typed in the capital input of 'id', without committing it.
func (e *Editor) Input(id int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	e.rows[i].Capital = text
	e.rows[i].Pending = true
	return nil
}

// Commit applies the change of the capital input of 'id': if it exceeds what
// the other co-owners left of the total capital, it is clamped down to that
// maximum. It returns the resulting text.
func (e *Editor) Commit(id int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return "", err
	}
	return e.commitLocked(i), nil
}

// Change types and commits 'text' in the capital input of 'id'.
func (e *Editor) Change(id int64, text string) (string, error) {
	if err := e.Input(id, text); err != nil {
		return "", err
	}
	return e.Commit(id)
}

// SetDefaultShare sets the default share input of 'id'.
func (e *Editor) SetDefaultShare(id int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	e.rows[i].DefaultShare = text
	return nil
}

func (e *Editor) commitLocked(i int) string {
	row := &e.rows[i]
	row.Pending = false
	// invalid text counts as zero here, it is reported by Payload.
	value, _ := coinvest.ParseAmount(row.Capital)
	clamped, ok := coinvest.ClampCapital(value, e.account.TotalCapital, e.sumLocked(i))
	if ok {
		slog.Debug("Capital clamped", "co_owner", row.CoOwnerID, "typed", row.Capital, "max", clamped)
		row.Capital = coinvest.FormatAmount(clamped)
	}
	return row.Capital
}

// sumLocked returns the capital of all rows but 'skip' (-1 for all rows).
func (e *Editor) sumLocked(skip int) decimal.Decimal {
	sum := decimal.Zero
	for i, row := range e.rows {
		if i == skip {
			continue
		}
		v, _ := coinvest.ParseAmount(row.Capital)
		sum = sum.Add(v)
	}
	return sum
}

func (e *Editor) indexLocked(id int64) (int, error) {
	for i, row := range e.rows {
		if row.CoOwnerID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no co-owner %d in account %q", id, e.account.Name)
}

// Payload returns the batch update of all rows. A blank field is sent as 0,
// a field that is not a number fails with a *coinvest.ValidationError keyed
// "<co-owner id>.<field>".
func (e *Editor) Payload() (map[int64]coinvest.CapitalUpdate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payloadLocked()
}

func (e *Editor) payloadLocked() (map[int64]coinvest.CapitalUpdate, error) {
	updates := make(map[int64]coinvest.CapitalUpdate, len(e.rows))
	verr := &coinvest.ValidationError{}
	for _, row := range e.rows {
		key := strconv.FormatInt(row.CoOwnerID, 10)
		value, err := coinvest.ParseAmount(row.Capital)
		if err != nil {
			verr.Add(key+".value", "A valid number is required.")
		}
		share, err := coinvest.ParseAmount(row.DefaultShare)
		if err != nil {
			verr.Add(key+".default_share", "A valid number is required.")
		}
		updates[row.CoOwnerID] = coinvest.CapitalUpdate{Value: value, DefaultShare: share}
	}
	if !verr.Empty() {
		return nil, verr
	}
	return updates, nil
}

// Save saves all rows, leaving the operations already recorded untouched.
func (e *Editor) Save(ctx context.Context) error { return e.save(ctx, false) }

// SaveAndApply saves all rows and recalculates the shares of the operations
// already recorded.
func (e *Editor) SaveAndApply(ctx context.Context) error { return e.save(ctx, true) }

func (e *Editor) save(ctx context.Context, updateOperations bool) error {
	release, err := e.guard.Acquire()
	if err != nil {
		return err
	}
	defer release()

	e.mu.Lock()
	// edits still pending are committed first, so that the save reads the
	// values the user sees.
	for i := range e.rows {
		if e.rows[i].Pending {
			e.commitLocked(i)
		}
	}
	updates, err := e.payloadLocked()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Info("Saving capital", "account", e.Account().ID, "co_owners", len(updates), "update_operations", updateOperations)
	if err := e.client.UpdateCapital(ctx, updates, updateOperations); err != nil {
		return err
	}
	if err := e.Reload(ctx); err != nil {
		return fmt.Errorf("capital saved, but cannot reload: %w", err)
	}
	return nil
}

// Add makes 'investor' a co-owner of the account, then reloads.
func (e *Editor) Add(ctx context.Context, investor int64) error {
	release, err := e.guard.Acquire()
	if err != nil {
		return err
	}
	defer release()

	id := e.Account().ID
	if _, err := e.client.AddCoOwner(ctx, investor, id); err != nil {
		return err
	}
	slog.Info("Co-owner added", "account", id, "investor", investor)
	if err := e.Reload(ctx); err != nil {
		return fmt.Errorf("co-owner added, but cannot reload: %w", err)
	}
	return nil
}

// Busy reports whether a save is in flight.
func (e *Editor) Busy() bool { return e.guard.Busy() }
