package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type productResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type orderItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total,omitempty"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	CreatedDate time.Time           `json:"created_date"`
	Items       []orderItemResponse `json:"items"`
	Total       string              `json:"total,omitempty"`
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	// Quantity по умолчанию domain.DefaultQuantity.
	Quantity *int `json:"quantity"`
}

type createOrderRequest struct {
	CreatedDate *time.Time         `json:"created_date"`
	Items       []orderItemRequest `json:"items" binding:"dive"`
}

type outcomeResponse struct {
	Outcome domain.Outcome `json:"outcome"`
}

type statusResponse struct {
	Status    string `json:"status"`
	HasOrders bool   `json:"has_orders"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Outcome domain.Outcome `json:"outcome,omitempty"`
}

func (r orderItemRequest) toDomain() domain.OrderItem {
	quantity := domain.DefaultQuantity
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return domain.NewOrderItem(r.ProductID, quantity)
}

func (r createOrderRequest) toDomain() domain.Order {
	var created time.Time
	if r.CreatedDate != nil {
		created = r.CreatedDate.UTC()
	}
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, item.toDomain())
	}
	return domain.NewOrder(created, items...)
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.StringFixed(domain.PriceScale),
	}
}

// newOrderResponse строит ответ. Суммы выводятся, только если товары загружены.
func newOrderResponse(o domain.Order, withTotals bool) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		CreatedDate: o.CreatedDate,
		Items:       make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		ir := orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		if withTotals {
			ir.LineTotal = item.LineTotal().StringFixed(domain.PriceScale)
		}
		resp.Items = append(resp.Items, ir)
	}
	if withTotals {
		resp.Total = o.Total().StringFixed(domain.PriceScale)
	}
	return resp
}
