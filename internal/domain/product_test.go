package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestNewProduct_RoundsPrice(t *testing.T) {
	p := domain.NewProduct("  Milk ", decimal.RequireFromString("2.505"))

	if p.Name != "Milk" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if got := p.Price.StringFixed(2); got != "2.51" {
		t.Fatalf("expected price rounded to 2.51, got %s", got)
	}
}

func TestProductValidate(t *testing.T) {
	cases := []struct {
		name    string
		product domain.Product
		want    error
	}{
		{name: "ok", product: domain.NewProduct("Bread", decimal.RequireFromString("1.30"))},
		{name: "free", product: domain.NewProduct("Sample", decimal.Zero)},
		{name: "empty name", product: domain.NewProduct(" ", decimal.NewFromInt(1)), want: domain.ErrProductNameRequired},
		{name: "negative price", product: domain.NewProduct("Apples", decimal.RequireFromString("-0.01")), want: domain.ErrPriceNegative},
		{name: "too large", product: domain.NewProduct("Gold", decimal.New(1, 16)), want: domain.ErrPriceOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOutcomeApplied(t *testing.T) {
	if !domain.OutcomeApplied.Applied() {
		t.Fatal("applied outcome must report Applied")
	}
	if domain.OutcomeOrderNotFound.Applied() || domain.OutcomeProductNotFound.Applied() {
		t.Fatal("not-found outcomes must not report Applied")
	}
}
