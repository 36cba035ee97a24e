package gormstore

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type productRow struct {
	ID    int64           `gorm:"primaryKey;autoIncrement"`
	Name  string          `gorm:"type:varchar(200);not null"`
	Price decimal.Decimal `gorm:"type:numeric(18,2);not null;check:chk_products_price,price >= 0"`
}

func (productRow) TableName() string { return "products" }

type orderRow struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	CreatedDate time.Time      `gorm:"not null"`
	Items       []orderItemRow `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	ID        int64       `gorm:"primaryKey;autoIncrement"`
	ProductID int64       `gorm:"not null;index"`
	Product   *productRow `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	OrderID   int64       `gorm:"not null;index"`
	Quantity  int         `gorm:"not null;check:chk_order_items_quantity,quantity >= 1"`
}

func (orderItemRow) TableName() string { return "order_items" }

// orderLine: одна строка LEFT JOIN orders/order_items/products.
type orderLine struct {
	OrderID     int64
	CreatedDate time.Time
	ItemID      sql.NullInt64
	ProductID   sql.NullInt64
	Quantity    sql.NullInt64
	ProductName sql.NullString
	Price       decimal.NullDecimal
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:    r.ID,
		Name:  r.Name,
		Price: r.Price.Round(domain.PriceScale),
	}
}

func (r orderItemRow) toDomain() domain.OrderItem {
	item := domain.OrderItem{
		ID:        r.ID,
		ProductID: r.ProductID,
		OrderID:   r.OrderID,
		Quantity:  r.Quantity,
	}
	if r.Product != nil {
		p := r.Product.toDomain()
		item.Product = &p
	}
	return item
}

// assembleOrders собирает агрегаты из строк join-запроса. Порядок строк сохраняется.
func assembleOrders(lines []orderLine) []domain.Order {
	orders := make([]domain.Order, 0)
	index := make(map[int64]int)

	for _, line := range lines {
		pos, ok := index[line.OrderID]
		if !ok {
			orders = append(orders, domain.Order{
				ID:          line.OrderID,
				CreatedDate: line.CreatedDate,
				Items:       make([]domain.OrderItem, 0),
			})
			pos = len(orders) - 1
			index[line.OrderID] = pos
		}
		if !line.ItemID.Valid {
			continue
		}

		item := domain.OrderItem{
			ID:        line.ItemID.Int64,
			ProductID: line.ProductID.Int64,
			OrderID:   line.OrderID,
			Quantity:  int(line.Quantity.Int64),
		}
		if line.ProductName.Valid {
			item.Product = &domain.Product{
				ID:    line.ProductID.Int64,
				Name:  line.ProductName.String,
				Price: line.Price.Decimal.Round(domain.PriceScale),
			}
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}

	return orders
}
