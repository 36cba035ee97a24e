package kafka

import (
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// TopicOrderEvents: топик событий заказов по умолчанию.
const TopicOrderEvents = "shop.order.events"

// Заголовки сообщения.
const (
	HeaderEventType = "x-event-type"
	HeaderEventID   = "x-event-id"
)

// OrderEventMessage: JSON-представление события заказа в топике.
type OrderEventMessage struct {
	EventID   string                `json:"event_id"`
	EventType domain.OrderEventType `json:"event_type"`
	OrderID   int64                 `json:"order_id"`
	ProductID int64                 `json:"product_id,omitempty"`
	Quantity  int                   `json:"quantity,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// NewOrderEventMessage переводит доменное событие в сообщение. Пустое время
// заменяется текущим.
func NewOrderEventMessage(event domain.OrderEvent) OrderEventMessage {
	ts := event.Occurred
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return OrderEventMessage{
		EventID:   event.ID,
		EventType: event.Type,
		OrderID:   event.OrderID,
		ProductID: event.ProductID,
		Quantity:  event.Quantity,
		Timestamp: ts,
	}
}

// Key: ключ партиционирования: все события одного заказа попадают в одну партицию.
func (m OrderEventMessage) Key() string {
	return strconv.FormatInt(m.OrderID, 10)
}
