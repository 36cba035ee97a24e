package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type productRepository struct {
	state *state
}

// Add сохраняет товар, повторяя numeric(18,2) и CHECK (price >= 0) реляционной схемы.
func (r *productRepository) Add(_ context.Context, product *domain.Product) error {
	price := product.Price.Round(domain.PriceScale)
	if price.IsNegative() {
		return constraintError("insert product", "chk_products_price")
	}
	r.state.nextProductID++
	stored := *product
	stored.ID = r.state.nextProductID
	stored.Price = price
	stored.OrderItems = nil
	r.state.products[stored.ID] = stored
	product.ID = stored.ID
	return nil
}

func (r *productRepository) Find(_ context.Context, id int64) (domain.Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *productRepository) FindWithOrderItems(ctx context.Context, id int64) (domain.Product, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.OrderItems = make([]domain.OrderItem, 0)
	for _, rec := range r.state.items {
		if rec.ProductID == id {
			p.OrderItems = append(p.OrderItems, rec.toDomain())
		}
	}
	sortItems(p.OrderItems)
	return p, nil
}

// List возвращает товары по возрастанию ID.
func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(r.state.products))
	for _, p := range r.state.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *productRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.state.products)), nil
}

// Remove удаляет товар, если на него не ссылается ни одна позиция (ON DELETE RESTRICT).
func (r *productRepository) Remove(_ context.Context, id int64) error {
	if _, ok := r.state.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	for _, rec := range r.state.items {
		if rec.ProductID == id {
			return domain.ErrProductInUse
		}
	}
	delete(r.state.products, id)
	return nil
}

type orderRepository struct {
	state *state
}

// Add сохраняет заказ и его позиции, проставляя сгенерированные ID.
func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	r.state.nextOrderID++
	id := r.state.nextOrderID
	r.state.orders[id] = orderRecord{ID: id, CreatedDate: order.CreatedDate}
	order.ID = id

	items := &orderItemRepository{state: r.state}
	for i := range order.Items {
		order.Items[i].OrderID = id
		if err := items.Add(ctx, &order.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) Find(_ context.Context, id int64) (domain.Order, error) {
	rec, ok := r.state.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return domain.Order{ID: rec.ID, CreatedDate: rec.CreatedDate}, nil
}

func (r *orderRepository) FindWithItems(ctx context.Context, id int64) (domain.Order, error) {
	order, err := r.Find(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = r.loadItems(id)
	return order, nil
}

// ListWithItems возвращает заказы по дате создания, при равенстве по ID.
func (r *orderRepository) ListWithItems(_ context.Context) ([]domain.Order, error) {
	result := make([]domain.Order, 0, len(r.state.orders))
	for _, rec := range r.state.orders {
		result = append(result, domain.Order{
			ID:          rec.ID,
			CreatedDate: rec.CreatedDate,
			Items:       r.loadItems(rec.ID),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedDate.Equal(result[j].CreatedDate) {
			return result[i].CreatedDate.Before(result[j].CreatedDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *orderRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.state.orders)), nil
}

// Remove удаляет заказ каскадно вместе с позициями.
func (r *orderRepository) Remove(_ context.Context, id int64) error {
	if _, ok := r.state.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	for itemID, rec := range r.state.items {
		if rec.OrderID == id {
			delete(r.state.items, itemID)
		}
	}
	delete(r.state.orders, id)
	return nil
}

func (r *orderRepository) loadItems(orderID int64) []domain.OrderItem {
	items := make([]domain.OrderItem, 0)
	for _, rec := range r.state.items {
		if rec.OrderID != orderID {
			continue
		}
		item := rec.toDomain()
		if p, ok := r.state.products[rec.ProductID]; ok {
			item.Product = &p
		}
		items = append(items, item)
	}
	sortItems(items)
	return items
}

type orderItemRepository struct {
	state *state
}

// Add сохраняет позицию, проверяя внешние ключи и CHECK (quantity >= 1).
func (r *orderItemRepository) Add(_ context.Context, item *domain.OrderItem) error {
	if _, ok := r.state.orders[item.OrderID]; !ok {
		return constraintError("insert order item", "fk_order_items_order")
	}
	if _, ok := r.state.products[item.ProductID]; !ok {
		return constraintError("insert order item", "fk_order_items_product")
	}
	if item.Quantity < 1 {
		return constraintError("insert order item", "chk_order_items_quantity")
	}

	r.state.nextItemID++
	item.ID = r.state.nextItemID
	r.state.items[item.ID] = itemRecord{
		ID:        item.ID,
		ProductID: item.ProductID,
		OrderID:   item.OrderID,
		Quantity:  item.Quantity,
	}
	return nil
}

func (r *orderItemRepository) Find(_ context.Context, id int64) (domain.OrderItem, error) {
	rec, ok := r.state.items[id]
	if !ok {
		return domain.OrderItem{}, domain.ErrOrderItemNotFound
	}
	return rec.toDomain(), nil
}

func (r *orderItemRepository) ListByOrder(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0)
	for _, rec := range r.state.items {
		if rec.OrderID == orderID {
			items = append(items, rec.toDomain())
		}
	}
	sortItems(items)
	return items, nil
}

func (r *orderItemRepository) Remove(_ context.Context, id int64) error {
	if _, ok := r.state.items[id]; !ok {
		return domain.ErrOrderItemNotFound
	}
	delete(r.state.items, id)
	return nil
}

func (rec itemRecord) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:        rec.ID,
		ProductID: rec.ProductID,
		OrderID:   rec.OrderID,
		Quantity:  rec.Quantity,
	}
}

func sortItems(items []domain.OrderItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

var (
	_ domain.ProductRepository   = (*productRepository)(nil)
	_ domain.OrderRepository     = (*orderRepository)(nil)
	_ domain.OrderItemRepository = (*orderItemRepository)(nil)
)
