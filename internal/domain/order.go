package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuantity: количество по умолчанию для новой позиции заказа.
const DefaultQuantity = 1

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID        int64
	ProductID int64
	// Product заполняется только при жадной загрузке, иначе nil.
	Product  *Product
	OrderID  int64
	Quantity int
}

// Order агрегирует заказ и принадлежащие ему позиции.
type Order struct {
	ID          int64
	CreatedDate time.Time
	Items       []OrderItem
}

// NewOrderItem создаёт позицию для товара productID. Вызывающий код передаёт quantity явно,
// обычно DefaultQuantity.
func NewOrderItem(productID int64, quantity int) OrderItem {
	return OrderItem{ProductID: productID, Quantity: quantity}
}

// NewOrder создаёт заказ с датой создания createdDate. Нулевая дата заменяется сервисом
// на текущее время при сохранении.
func NewOrder(createdDate time.Time, items ...OrderItem) Order {
	return Order{
		CreatedDate: createdDate,
		Items:       append([]OrderItem(nil), items...),
	}
}

// Validate проверяет инварианты позиции.
func (i OrderItem) Validate() error {
	return NewValidationError(i.violations()...)
}

func (i OrderItem) violations() []error {
	var errs []error
	if i.ProductID <= 0 {
		errs = append(errs, ErrProductRequired)
	}
	if i.Quantity < 1 {
		errs = append(errs, ErrQuantityInvalid)
	}
	return errs
}

// LineTotal возвращает price * quantity. Без загруженного товара сумма нулевая.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate проверяет инварианты заказа и всех его позиций.
func (o Order) Validate() error {
	var errs []error
	for _, item := range o.Items {
		errs = append(errs, item.violations()...)
		if item.OrderID != 0 && item.OrderID != o.ID {
			errs = append(errs, ErrItemOrderMismatch)
		}
	}
	return NewValidationError(errs...)
}

// Total: сумма по всем позициям заказа.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
