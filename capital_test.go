package coinvest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestClampCapital(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		total       string
		others      string
		want        string
		wantClamped bool
	}{
		{"under the max", "300", "1000", "500", "300", false},
		{"exactly the max", "500", "1000", "500", "500", false},
		{"over the max", "700", "1000", "500", "500", true},
		{"max is rounded to 2 decimals", "400", "1000", "666.666", "333.33", true},
		{"max is rounded down", "50", "100", "66.665", "33.33", true},
		{"others exceed the total", "10", "1000", "1200", "0", true},
		{"zero is always allowed", "0", "1000", "1000", "0", false},
		{"no total", "1", "0", "0", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ClampCapital(d(tt.value), d(tt.total), d(tt.others))
			if !got.Equal(d(tt.want)) {
				t.Errorf("ClampCapital(%s, %s, %s) = %s, want %s", tt.value, tt.total, tt.others, got, tt.want)
			}
			if others := d(tt.others); others.LessThanOrEqual(d(tt.total)) {
				if left := d(tt.total).Sub(others).Sub(got); left.IsNegative() {
					t.Errorf("ClampCapital(%s, %s, %s) leaves %s, want a non negative remainder", tt.value, tt.total, tt.others, left)
				}
			}
			if clamped != tt.wantClamped {
				t.Errorf("ClampCapital(%s, %s, %s) clamped = %v, want %v", tt.value, tt.total, tt.others, clamped, tt.wantClamped)
			}
		})
	}
}

// For every value of one input, the result never exceeds total - others, and
// values under that threshold are left unchanged.
func TestClampCapital_Property(t *testing.T) {
	total := d("1000")
	others := SumCapital(d("120.50"), d("300"), d("79.5"))
	max := total.Sub(others)
	for cents := int64(0); cents <= 100000; cents += 137 {
		value := decimal.New(cents, -2)
		got, clamped := ClampCapital(value, total, others)
		if value.LessThanOrEqual(max) {
			if clamped || !got.Equal(value) {
				t.Fatalf("ClampCapital(%s) = %s, %v; want unchanged", value, got, clamped)
			}
			continue
		}
		if !clamped || !got.Equal(max.RoundFloor(2)) {
			t.Fatalf("ClampCapital(%s) = %s, %v; want %s", value, got, clamped, max.RoundFloor(2))
		}
	}
}

func TestSumCapital(t *testing.T) {
	if got := SumCapital(); !got.IsZero() {
		t.Errorf("SumCapital() = %s, want 0", got)
	}
	if got := SumCapital(d("1.10"), d("2.20"), d("-0.30")); !got.Equal(d("3")) {
		t.Errorf("SumCapital() = %s, want 3", got)
	}
}
