package renderer

import (
	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/capital"
	"github.com/google/uuid"
)

// Capital is the capital editor of an account, as rendered.
type Capital struct {
	ID        uuid.UUID
	Name      string
	Principle coinvest.CapitalSharingPrinciple
	Total     coinvest.Money
	Income    coinvest.Money
	Allocated coinvest.Money
	Remaining coinvest.Money
	CoOwners  []CapitalCoOwner
	Busy      bool
}

// CapitalCoOwner is one row of the capital editor. Values are the raw input
// texts.
type CapitalCoOwner struct {
	ID           int64
	Name         string
	Creator      bool
	Capital      string
	DefaultShare string
	Pending      bool
}

// NewCapital builds the rendered capital editor from a snapshot of the editor.
func NewCapital(v capital.View, currency string) *Capital {
	if v.Account.Currency != "" {
		currency = v.Account.Currency
	}
	c := &Capital{
		ID:        v.Account.ID,
		Name:      v.Account.Name,
		Principle: v.Account.CapitalSharingPrinciple,
		Total:     coinvest.M(v.Account.TotalCapital, currency),
		Income:    coinvest.M(v.Account.TotalIncome, currency),
		Allocated: coinvest.M(v.Allocated, currency),
		Remaining: coinvest.M(v.Remaining, currency),
		CoOwners:  make([]CapitalCoOwner, 0, len(v.Rows)),
		Busy:      v.Busy,
	}
	for _, r := range v.Rows {
		c.CoOwners = append(c.CoOwners, CapitalCoOwner{
			ID:           r.CoOwnerID,
			Name:         r.Name,
			Creator:      r.IsCreator,
			Capital:      r.Capital,
			DefaultShare: r.DefaultShare,
			Pending:      r.Pending,
		})
	}
	return c
}
