package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const orderLinesSelect = `
	o.id AS order_id,
	o.created_date AS created_date,
	i.id AS item_id,
	i.product_id AS product_id,
	i.quantity AS quantity,
	p.name AS product_name,
	p.price AS price`

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Add(ctx context.Context, product *domain.Product) error {
	row := productRow{Name: product.Name, Price: product.Price}
	if err := r.db.WithContext(ctx).Select("Name", "Price").Create(&row).Error; err != nil {
		return storageError("insert product", err)
	}
	product.ID = row.ID
	return nil
}

func (r *productRepository) Find(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, storageError("select product", err)
	}
	return row.toDomain(), nil
}

func (r *productRepository) FindWithOrderItems(ctx context.Context, id int64) (domain.Product, error) {
	product, err := r.Find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	var rows []orderItemRow
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", id).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return domain.Product{}, storageError("select product items", err)
	}

	product.OrderItems = make([]domain.OrderItem, 0, len(rows))
	for _, row := range rows {
		product.OrderItems = append(product.OrderItems, row.toDomain())
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storageError("list products", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Count(&count).Error; err != nil {
		return 0, storageError("count products", err)
	}
	return count, nil
}

func (r *productRepository) Remove(ctx context.Context, id int64) error {
	if _, err := r.Find(ctx, id); err != nil {
		return err
	}

	var refs int64
	if err := r.db.WithContext(ctx).Model(&orderItemRow{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return storageError("count product references", err)
	}
	if refs > 0 {
		return domain.ErrProductInUse
	}

	if err := r.db.WithContext(ctx).Delete(&productRow{}, id).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return storageError("delete product", err)
	}
	return nil
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	row := orderRow{CreatedDate: order.CreatedDate}
	if err := r.db.WithContext(ctx).Select("CreatedDate").Create(&row).Error; err != nil {
		return storageError("insert order", err)
	}
	order.ID = row.ID

	items := &orderItemRepository{db: r.db}
	for i := range order.Items {
		order.Items[i].OrderID = row.ID
		if err := items.Add(ctx, &order.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) Find(ctx context.Context, id int64) (domain.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, storageError("select order", err)
	}
	return domain.Order{ID: row.ID, CreatedDate: row.CreatedDate}, nil
}

func (r *orderRepository) FindWithItems(ctx context.Context, id int64) (domain.Order, error) {
	orders, err := r.loadOrders(ctx, "o.id = ?", id)
	if err != nil {
		return domain.Order{}, err
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return orders[0], nil
}

func (r *orderRepository) ListWithItems(ctx context.Context) ([]domain.Order, error) {
	return r.loadOrders(ctx, "")
}

// loadOrders выбирает заказы одним LEFT JOIN по позициям и товарам.
func (r *orderRepository) loadOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	query := r.db.WithContext(ctx).
		Table("orders AS o").
		Select(orderLinesSelect).
		Joins("LEFT JOIN order_items AS i ON i.order_id = o.id").
		Joins("LEFT JOIN products AS p ON p.id = i.product_id")
	if where != "" {
		query = query.Where(where, args...)
	}

	var lines []orderLine
	if err := query.Order("o.created_date ASC, o.id ASC, i.id ASC").Scan(&lines).Error; err != nil {
		return nil, storageError("select orders with items", err)
	}
	return assembleOrders(lines), nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRow{}).Count(&count).Error; err != nil {
		return 0, storageError("count orders", err)
	}
	return count, nil
}

// Remove удаляет позиции и сам заказ в текущей транзакции.
func (r *orderRepository) Remove(ctx context.Context, id int64) error {
	if _, err := r.Find(ctx, id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&orderItemRow{}).Error; err != nil {
		return storageError("delete order items", err)
	}
	if err := r.db.WithContext(ctx).Delete(&orderRow{}, id).Error; err != nil {
		return storageError("delete order", err)
	}
	return nil
}

type orderItemRepository struct {
	db *gorm.DB
}

// Add вставляет позицию явно со всеми колонками. У quantity нет DEFAULT в схеме,
// поэтому нулевое значение доходит до CHECK.
func (r *orderItemRepository) Add(ctx context.Context, item *domain.OrderItem) error {
	row := orderItemRow{
		ProductID: item.ProductID,
		OrderID:   item.OrderID,
		Quantity:  item.Quantity,
	}
	if err := r.db.WithContext(ctx).Select("ProductID", "OrderID", "Quantity").Create(&row).Error; err != nil {
		return storageError("insert order item", err)
	}
	item.ID = row.ID
	return nil
}

func (r *orderItemRepository) Find(ctx context.Context, id int64) (domain.OrderItem, error) {
	var row orderItemRow
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.OrderItem{}, domain.ErrOrderItemNotFound
		}
		return domain.OrderItem{}, storageError("select order item", err)
	}
	return row.toDomain(), nil
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var rows []orderItemRow
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, storageError("list order items", err)
	}

	items := make([]domain.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *orderItemRepository) Remove(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&orderItemRow{}, id)
	if res.Error != nil {
		return storageError("delete order item", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderItemNotFound
	}
	return nil
}

var (
	_ domain.ProductRepository   = (*productRepository)(nil)
	_ domain.OrderRepository     = (*orderRepository)(nil)
	_ domain.OrderItemRepository = (*orderItemRepository)(nil)
)
