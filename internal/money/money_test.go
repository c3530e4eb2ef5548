package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "simple markup", base: "10.00", want: "13.00"},
		{name: "rounds to nearest cent", base: "10.005", want: "13.01"},
		{name: "zero base", base: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := decimal.NewFromString(tt.base)
			if err != nil {
				t.Fatalf("parsing base: %v", err)
			}
			got := UnitPrice(base)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("UnitPrice(%s) = %s, want %s", tt.base, got, want)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	unitPrice := decimal.NewFromFloat(13.00)
	got := LineTotal(3, unitPrice)
	want := decimal.NewFromFloat(39.00)
	if !got.Equal(want) {
		t.Errorf("LineTotal(3, 13.00) = %s, want %s", got, want)
	}
}

func TestSum(t *testing.T) {
	a := decimal.NewFromFloat(10.10)
	b := decimal.NewFromFloat(20.20)
	c := decimal.NewFromFloat(5.05)

	got := Sum(a, b, c)
	want := decimal.NewFromFloat(35.35)
	if !got.Equal(want) {
		t.Errorf("Sum() = %s, want %s", got, want)
	}
}

func TestSum_Empty(t *testing.T) {
	got := Sum()
	if !got.Equal(decimal.Zero) {
		t.Errorf("Sum() = %s, want 0", got)
	}
}
