package domain

import "time"

// OrderEventType задаёт тип события заказа.
type OrderEventType string

const (
	OrderEventCreated   OrderEventType = "order.created"
	OrderEventRemoved   OrderEventType = "order.removed"
	OrderEventItemAdded OrderEventType = "order.item_added"
)

// OrderEvent описывает зафиксированное изменение заказа.
type OrderEvent struct {
	ID        string
	Type      OrderEventType
	OrderID   int64
	ProductID int64
	Quantity  int
	Occurred  time.Time
}
