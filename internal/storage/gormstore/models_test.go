package gormstore

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAssembleOrders(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	lines := []orderLine{
		{
			OrderID:     2,
			CreatedDate: created,
			ItemID:      sql.NullInt64{Int64: 10, Valid: true},
			ProductID:   sql.NullInt64{Int64: 1, Valid: true},
			Quantity:    sql.NullInt64{Int64: 2, Valid: true},
			ProductName: sql.NullString{String: "Milk", Valid: true},
			Price:       decimal.NullDecimal{Decimal: decimalFromString("2.5"), Valid: true},
		},
		{OrderID: 1, CreatedDate: created.Add(time.Minute)},
		{
			OrderID:     2,
			CreatedDate: created,
			ItemID:      sql.NullInt64{Int64: 11, Valid: true},
			ProductID:   sql.NullInt64{Int64: 2, Valid: true},
			Quantity:    sql.NullInt64{Int64: 1, Valid: true},
			ProductName: sql.NullString{String: "Bread", Valid: true},
			Price:       decimal.NullDecimal{Decimal: decimalFromString("1.3"), Valid: true},
		},
	}

	orders := assembleOrders(lines)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
	assert.Equal(t, int64(1), orders[1].ID)
	assert.Empty(t, orders[1].Items)

	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, int64(2), orders[0].Items[0].OrderID)
	assert.Equal(t, "2.50", orders[0].Items[0].Product.Price.StringFixed(2))
	assert.Equal(t, "6.30", orders[0].Total().StringFixed(2))
}

func TestAssembleOrders_Empty(t *testing.T) {
	t.Parallel()

	orders := assembleOrders(nil)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
