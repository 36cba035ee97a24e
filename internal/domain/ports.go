package domain

import "context"

// Store: контекст хранения: владеет подключением и схемой реляционного хранилища.
type Store interface {
	// EnsureSchema создаёт таблицы, если их нет. Идемпотентен.
	EnsureSchema(ctx context.Context) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
	// WithinTx выполняет fn в одной транзакции и фиксирует её, если fn вернула nil.
	// Любая другая ошибка приводит к откату.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

// Tx открывает типизированные коллекции сущностей в рамках транзакции.
type Tx interface {
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
}

// EventPublisher публикует события заказов после успешной фиксации.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
