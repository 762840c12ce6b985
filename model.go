package coinvest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investor is a registered user that can co-own investment accounts.
type Investor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CapitalSharingPrinciple is the account level policy governing how profit is
// split among co-owners. Its values are opaque to the client logic.
type CapitalSharingPrinciple string

const (
	Absolute CapitalSharingPrinciple = "Abs"
	Relative CapitalSharingPrinciple = "Rel"
)

// ParseCapitalSharingPrinciple parses the short code used by the server.
// An empty string is accepted and lets the server pick its default.
func ParseCapitalSharingPrinciple(s string) (CapitalSharingPrinciple, error) {
	switch CapitalSharingPrinciple(s) {
	case "", Absolute, Relative:
		return CapitalSharingPrinciple(s), nil
	}
	return "", fmt.Errorf("invalid capital sharing principle %q, want %q or %q", s, Absolute, Relative)
}

func (p CapitalSharingPrinciple) String() string {
	switch p {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	}
	return string(p)
}

// InvestmentAccount is a brokerage account owned by several investors.
type InvestmentAccount struct {
	ID                      uuid.UUID               `json:"id"`
	Name                    string                  `json:"name"`
	Token                   string                  `json:"token,omitempty"` // write only
	BrokerAccountID         string                  `json:"broker_account_id,omitempty"`
	Creator                 int64                   `json:"creator,omitempty"`
	TotalCapital            decimal.Decimal         `json:"total_capital"`
	TotalIncome             decimal.Decimal         `json:"total_income"`
	CapitalSharingPrinciple CapitalSharingPrinciple `json:"capital_sharing_principle,omitempty"`
	Currency                string                  `json:"currency,omitempty"`
}

// CoOwner is the participation of one investor in an investment account.
type CoOwner struct {
	ID                int64           `json:"id"`
	Investor          int64           `json:"investor"`
	Username          string          `json:"username,omitempty"`
	InvestmentAccount uuid.UUID       `json:"investment_account"`
	Capital           decimal.Decimal `json:"capital"`
	DefaultShare      decimal.Decimal `json:"default_share"`
	IsCreator         bool            `json:"is_creator,omitempty"`
}

// Name returns the display name of the co-owner, falling back on the
// investor id when the username was not provided.
func (c CoOwner) Name() string {
	if c.Username != "" {
		return c.Username
	}
	return fmt.Sprintf("investor #%d", c.Investor)
}

// OperationShare is a per operation override of an investor's profit split.
type OperationShare struct {
	ID           int64           `json:"id"`
	Operation    int64           `json:"operation"`
	Investor     int64           `json:"investor"`
	InvestorName string          `json:"investor_name"`
	Value        decimal.Decimal `json:"value"`
}

// CapitalUpdate is the new capital and default share of one co-owner, as sent
// in a batch update.
type CapitalUpdate struct {
	Value        decimal.Decimal `json:"value"`
	DefaultShare decimal.Decimal `json:"default_share"`
}
