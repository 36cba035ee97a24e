package domain

import "context"

// ProductRepository описывает типизированную коллекцию товаров внутри транзакции.
type ProductRepository interface {
	// Add сохраняет товар и проставляет сгенерированный ID.
	Add(ctx context.Context, product *Product) error
	// Find возвращает товар по идентификатору или ErrProductNotFound.
	Find(ctx context.Context, id int64) (Product, error)
	// FindWithOrderItems возвращает товар вместе с ссылающимися на него позициями.
	FindWithOrderItems(ctx context.Context, id int64) (Product, error)
	// List возвращает все товары по возрастанию ID.
	List(ctx context.Context) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	// Remove удаляет товар. ErrProductInUse, если на него ссылаются позиции.
	Remove(ctx context.Context, id int64) error
}

// OrderRepository описывает типизированную коллекцию заказов внутри транзакции.
type OrderRepository interface {
	// Add сохраняет заказ вместе с приложенными позициями и проставляет ID заказу и позициям.
	Add(ctx context.Context, order *Order) error
	// Find возвращает заказ без позиций или ErrOrderNotFound.
	Find(ctx context.Context, id int64) (Order, error)
	// FindWithItems возвращает заказ с позициями и товарами каждой позиции.
	FindWithItems(ctx context.Context, id int64) (Order, error)
	// ListWithItems возвращает все заказы с позициями и товарами,
	// упорядоченные по дате создания, затем по ID.
	ListWithItems(ctx context.Context) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	// Remove удаляет заказ каскадно вместе с позициями.
	Remove(ctx context.Context, id int64) error
}

// OrderItemRepository описывает типизированную коллекцию позиций заказов.
type OrderItemRepository interface {
	Add(ctx context.Context, item *OrderItem) error
	Find(ctx context.Context, id int64) (OrderItem, error)
	// ListByOrder возвращает позиции заказа по возрастанию ID.
	ListByOrder(ctx context.Context, orderID int64) ([]OrderItem, error)
	Remove(ctx context.Context, id int64) error
}
