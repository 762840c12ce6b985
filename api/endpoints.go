package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/coinvest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investors

// SearchInvestors returns the investors whose username matches 'text'.
func (c *Client) SearchInvestors(ctx context.Context, text string) ([]coinvest.Investor, error) {
	var investors []coinvest.Investor
	err := c.do(ctx, http.MethodGet, "/api/investors/", url.Values{"search": {text}}, nil, &investors)
	if err != nil {
		return nil, fmt.Errorf("cannot search investors %q: %w", text, err)
	}
	return investors, nil
}

// SetDefaultInvestmentAccount makes 'account' the default account of the user 'userID'.
func (c *Client) SetDefaultInvestmentAccount(ctx context.Context, userID int64, account uuid.UUID) error {
	body := struct {
		Account uuid.UUID `json:"default_investment_account"`
	}{account}
	path := "/api/investors/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("cannot set default investment account: %w", err)
	}
	return nil
}

// Co-owners

// AddCoOwner makes 'investor' a co-owner of 'account'.
func (c *Client) AddCoOwner(ctx context.Context, investor int64, account uuid.UUID) (coinvest.CoOwner, error) {
	body := struct {
		Investor          int64     `json:"investor"`
		InvestmentAccount uuid.UUID `json:"investment_account"`
	}{investor, account}
	var co coinvest.CoOwner
	if err := c.do(ctx, http.MethodPost, "/api/co-owners/", nil, body, &co); err != nil {
		return co, fmt.Errorf("cannot add co-owner: %w", err)
	}
	return co, nil
}

// CoOwners lists the co-owners of 'account'.
func (c *Client) CoOwners(ctx context.Context, account uuid.UUID) ([]coinvest.CoOwner, error) {
	var cos []coinvest.CoOwner
	query := url.Values{"investment_account": {account.String()}}
	if err := c.do(ctx, http.MethodGet, "/api/co-owners/", query, nil, &cos); err != nil {
		return nil, fmt.Errorf("cannot list co-owners: %w", err)
	}
	return cos, nil
}

// UpdateCapital updates the capital and default share of several co-owners at
// once. When 'updateOperations' is true the server also recalculates the
// shares of the operations already recorded.
func (c *Client) UpdateCapital(ctx context.Context, updates map[int64]coinvest.CapitalUpdate, updateOperations bool) error {
	body := make(map[string]coinvest.CapitalUpdate, len(updates))
	for id, u := range updates {
		body[strconv.FormatInt(id, 10)] = u
	}
	query := url.Values{"update_operations": {strconv.FormatBool(updateOperations)}}
	if err := c.do(ctx, http.MethodPatch, "/api/capital/multiple_updates/", query, body, nil); err != nil {
		return fmt.Errorf("cannot update capital: %w", err)
	}
	return nil
}

// Operation shares

// UpdateShare sets the value of the operation share 'id'.
func (c *Client) UpdateShare(ctx context.Context, id int64, value decimal.Decimal) (coinvest.OperationShare, error) {
	body := struct {
		Value decimal.Decimal `json:"value"`
	}{value}
	var share coinvest.OperationShare
	path := fmt.Sprintf("/api/share/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &share); err != nil {
		return share, fmt.Errorf("cannot update share %d: %w", id, err)
	}
	return share, nil
}

// Shares lists the shares of the operation 'operation'.
func (c *Client) Shares(ctx context.Context, operation int64) ([]coinvest.OperationShare, error) {
	var shares []coinvest.OperationShare
	query := url.Values{"operation": {strconv.FormatInt(operation, 10)}}
	if err := c.do(ctx, http.MethodGet, "/api/share/", query, nil, &shares); err != nil {
		return nil, fmt.Errorf("cannot list shares of operation %d: %w", operation, err)
	}
	return shares, nil
}

// Investment accounts

// NewInvestmentAccount is the creation form of an investment account.
type NewInvestmentAccount struct {
	Name                    string                           `json:"name" validate:"required,max=128"`
	Token                   string                           `json:"token" validate:"required,max=128"`
	CapitalSharingPrinciple coinvest.CapitalSharingPrinciple `json:"capital_sharing_principle,omitempty" validate:"omitempty,oneof=Abs Rel"`
}

// CreateInvestmentAccount creates an investment account owned by the current user.
func (c *Client) CreateInvestmentAccount(ctx context.Context, form NewInvestmentAccount) (coinvest.InvestmentAccount, error) {
	var account coinvest.InvestmentAccount
	if err := c.do(ctx, http.MethodPost, "/api/investment-accounts/", nil, form, &account); err != nil {
		return account, fmt.Errorf("cannot create investment account: %w", err)
	}
	return account, nil
}

// InvestmentAccounts lists the accounts the current user owns or co-owns.
func (c *Client) InvestmentAccounts(ctx context.Context) ([]coinvest.InvestmentAccount, error) {
	var accounts []coinvest.InvestmentAccount
	if err := c.do(ctx, http.MethodGet, "/api/investment-accounts/", nil, nil, &accounts); err != nil {
		return nil, fmt.Errorf("cannot list investment accounts: %w", err)
	}
	return accounts, nil
}

// InvestmentAccount returns the account 'id'.
func (c *Client) InvestmentAccount(ctx context.Context, id uuid.UUID) (coinvest.InvestmentAccount, error) {
	var account coinvest.InvestmentAccount
	if err := c.do(ctx, http.MethodGet, "/api/investment-accounts/"+id.String(), nil, nil, &account); err != nil {
		return account, fmt.Errorf("cannot get investment account %s: %w", id, err)
	}
	return account, nil
}

// RemoveInvestmentAccount deletes the account 'id'.
func (c *Client) RemoveInvestmentAccount(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/api/investment-accounts/"+id.String(), nil, nil, nil); err != nil {
		return fmt.Errorf("cannot remove investment account %s: %w", id, err)
	}
	return nil
}
