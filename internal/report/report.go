// Package report формирует текстовые отчёты по заказам. Данные не изменяет.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const (
	// DateLayout: формат даты заказа в отчёте.
	DateLayout = "2006-01-02 15:04:05"

	NoOrdersFound     = "No orders found"
	StatusHasOrders   = "Orders exist in system"
	StatusEmptyOrders = "No orders in system"
)

// OrderLister возвращает заказы с позициями. Реализуется orders.Service.
type OrderLister interface {
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
}

// WriteOrders печатает заказы с позициями, суммами по строкам и итогом.
func WriteOrders(w io.Writer, orders []domain.Order) error {
	bw := bufio.NewWriter(w)
	if len(orders) == 0 {
		fmt.Fprintln(bw, NoOrdersFound)
		return bw.Flush()
	}

	for _, order := range orders {
		fmt.Fprintf(bw, "Order #%d (%s)\n", order.ID, order.CreatedDate.Format(DateLayout))
		fmt.Fprintln(bw, "Items:")
		for _, item := range order.Items {
			fmt.Fprintf(bw, "  %s x %d = %s$\n", productName(item), item.Quantity, money(item.LineTotal()))
		}
		fmt.Fprintf(bw, "Total: %s$\n", money(order.Total()))
	}
	return bw.Flush()
}

// Status возвращает строку состояния системы заказов.
func Status(orders []domain.Order) string {
	if len(orders) > 0 {
		return StatusHasOrders
	}
	return StatusEmptyOrders
}

// QueryStatus загружает заказы и возвращает строку состояния.
func QueryStatus(ctx context.Context, lister OrderLister) (string, error) {
	orders, err := lister.GetAllOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("query order status: %w", err)
	}
	return Status(orders), nil
}

func productName(item domain.OrderItem) string {
	if item.Product == nil {
		return fmt.Sprintf("product #%d", item.ProductID)
	}
	return item.Product.Name
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.PriceScale)
}
