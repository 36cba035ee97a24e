package report_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/report"
)

type stubLister struct {
	orders []domain.Order
	err    error
}

func (s stubLister) GetAllOrders(context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

func sampleOrder() domain.Order {
	milk := domain.NewProduct("Milk", decimal.RequireFromString("2.50"))
	bread := domain.NewProduct("Bread", decimal.RequireFromString("1.30"))
	return domain.Order{
		ID:          1,
		CreatedDate: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ID: 1, ProductID: 1, Product: &milk, OrderID: 1, Quantity: 2},
			{ID: 2, ProductID: 2, Product: &bread, OrderID: 1, Quantity: 1},
		},
	}
}

func TestWriteOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteOrders(&buf, []domain.Order{sampleOrder()}))

	want := "Order #1 (2024-05-01 09:30:00)\n" +
		"Items:\n" +
		"  Milk x 2 = 5.00$\n" +
		"  Bread x 1 = 1.30$\n" +
		"Total: 6.30$\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteOrders_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteOrders(&buf, nil))
	assert.Equal(t, "No orders found\n", buf.String())
}

func TestWriteOrders_OrderWithoutItems(t *testing.T) {
	var buf bytes.Buffer
	order := domain.Order{ID: 3, CreatedDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, report.WriteOrders(&buf, []domain.Order{order}))
	assert.Equal(t, "Order #3 (2024-01-02 03:04:05)\nItems:\nTotal: 0.00$\n", buf.String())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "No orders in system", report.Status(nil))
	assert.Equal(t, "Orders exist in system", report.Status([]domain.Order{sampleOrder()}))
}

func TestQueryStatus(t *testing.T) {
	status, err := report.QueryStatus(context.Background(), stubLister{orders: []domain.Order{sampleOrder()}})
	require.NoError(t, err)
	assert.Equal(t, report.StatusHasOrders, status)

	boom := errors.New("boom")
	_, err = report.QueryStatus(context.Background(), stubLister{err: boom})
	require.ErrorIs(t, err, boom)
}
