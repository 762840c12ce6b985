// Package accounts manages the investment accounts of the current investor:
// creating them, choosing the default one and removing them.
package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/api"
	"github.com/etnz/coinvest/inflight"
	"github.com/google/uuid"
)

// Client is the part of the API the controller needs.
type Client interface {
	InvestmentAccounts(ctx context.Context) ([]coinvest.InvestmentAccount, error)
	CreateInvestmentAccount(ctx context.Context, form api.NewInvestmentAccount) (coinvest.InvestmentAccount, error)
	SetDefaultInvestmentAccount(ctx context.Context, userID int64, account uuid.UUID) error
	RemoveInvestmentAccount(ctx context.Context, id uuid.UUID) error
}

// Form is the account creation form.
type Form = api.NewInvestmentAccount

// Controller is the state of the investment accounts page.
type Controller struct {
	client Client
	userID int64
	create inflight.Guard
	busy   inflight.Set[uuid.UUID]

	mu        sync.Mutex
	accounts  []coinvest.InvestmentAccount
	def       uuid.UUID
	formError *coinvest.ValidationError
}

// New returns the controller of user 'userID'. Accounts are fetched by Reload.
func New(client Client, userID int64) *Controller {
	return &Controller{client: client, userID: userID}
}

// Reload fetches the account list.
func (c *Controller) Reload(ctx context.Context) error {
	accounts, err := c.client.InvestmentAccounts(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = accounts
	return nil
}

// Accounts returns the account list.
func (c *Controller) Accounts() []coinvest.InvestmentAccount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.accounts)
}

// Default returns the account last made the default one, uuid.Nil if none.
func (c *Controller) Default() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.def
}

// FieldErrors returns the errors of the last creation attempt, by field.
// It is nil when the last attempt succeeded.
func (c *Controller) FieldErrors() *coinvest.ValidationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formError
}

// Creating reports whether a creation is in flight.
func (c *Controller) Creating() bool { return c.create.Busy() }

// Busy reports whether a request on account 'id' is in flight.
func (c *Controller) Busy(id uuid.UUID) bool { return c.busy.Busy(id) }

// Create creates an account from 'form' and reloads the list.
//
// The form is checked locally first. Validation failures, local or from the
// server, are kept by field in FieldErrors.
func (c *Controller) Create(ctx context.Context, form Form) (coinvest.InvestmentAccount, error) {
	var account coinvest.InvestmentAccount
	if err := coinvest.Validate(form); err != nil {
		c.setFormError(err)
		return account, err
	}

	release, err := c.create.Acquire()
	if err != nil {
		return account, err
	}
	defer release()

	account, err = c.client.CreateInvestmentAccount(ctx, form)
	c.setFormError(err)
	if err != nil {
		return account, err
	}
	slog.Info("Investment account created", "id", account.ID, "name", account.Name)
	if err := c.Reload(ctx); err != nil {
		return account, fmt.Errorf("account created, but cannot reload: %w", err)
	}
	return account, nil
}

func (c *Controller) setFormError(err error) {
	verr, _ := coinvest.AsValidationError(err)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formError = verr
}

// SetDefault makes account 'id' the default account of the user and reloads
// the list.
func (c *Controller) SetDefault(ctx context.Context, id uuid.UUID) error {
	release, err := c.busy.Acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.client.SetDefaultInvestmentAccount(ctx, c.userID, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.def = id
	c.mu.Unlock()
	slog.Info("Default investment account set", "id", id, "user", c.userID)
	return c.Reload(ctx)
}

// Remove deletes account 'id'. It leaves the list once the server confirmed
// the deletion.
func (c *Controller) Remove(ctx context.Context, id uuid.UUID) error {
	release, err := c.busy.Acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.client.RemoveInvestmentAccount(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = slices.DeleteFunc(c.accounts, func(a coinvest.InvestmentAccount) bool { return a.ID == id })
	if c.def == id {
		c.def = uuid.Nil
	}
	slog.Info("Investment account removed", "id", id)
	return nil
}
