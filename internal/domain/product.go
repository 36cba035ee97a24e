package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceScale: количество знаков после запятой у цены (numeric(18,2)).
const PriceScale = 2

// maxPrice: граница numeric(18,2): 16 знаков до запятой.
var maxPrice = decimal.New(1, 16)

// Product: товар каталога.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	// OrderItems: обратная связь: позиции, ссылающиеся на товар. Товар ими не владеет,
	// поле заполняется только при явной жадной загрузке.
	OrderItems []OrderItem
}

// NewProduct создаёт товар с ценой, нормализованной до двух знаков.
func NewProduct(name string, price decimal.Decimal) Product {
	return Product{
		Name:  strings.TrimSpace(name),
		Price: price.Round(PriceScale),
	}
}

// Validate проверяет инварианты товара.
func (p Product) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Price.Abs().GreaterThanOrEqual(maxPrice) {
		errs = append(errs, ErrPriceOutOfRange)
	}
	return NewValidationError(errs...)
}
