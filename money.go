package coinvest

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in a currency, used to display capital and income.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns 'value' in currency 'cur'.
func M(value decimal.Decimal, cur string) Money {
	return Money{value: value, cur: cur}
}

// currency returns the money's currency.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the localized representation of the amount, like "1 500,00 ₽".
// Without a currency, it is the plain amount with two decimals.
func (m Money) String() string {
	if m.cur == "" || money.GetCurrency(m.cur) == nil {
		return FormatAmount(m.value)
	}
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}
