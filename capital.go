package coinvest

import "github.com/shopspring/decimal"

// The capital rules below are advisory: they keep the edited values
// consistent while the user types. The server runs the authoritative check.

// SumCapital returns the sum of the given capitals.
func SumCapital(capitals ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range capitals {
		sum = sum.Add(c)
	}
	return sum
}

// MaxCapital returns the largest capital a co-owner may hold when the other
// co-owners of the account already hold 'others' out of 'total'.
//
// It is never negative: if the others already exceed the total, there is
// simply nothing left.
func MaxCapital(total, others decimal.Decimal) decimal.Decimal {
	max := total.Sub(others)
	if max.IsNegative() {
		return decimal.Zero
	}
	return max
}

// ClampCapital returns 'value' if it fits under MaxCapital, otherwise the max
// rounded down to two decimals, so that the clamped value still fits. The
// boolean reports whether 'value' was clamped.
func ClampCapital(value, total, others decimal.Decimal) (decimal.Decimal, bool) {
	max := MaxCapital(total, others)
	if value.GreaterThan(max) {
		return max.RoundFloor(2), true
	}
	return value, false
}
