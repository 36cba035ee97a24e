package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/orders"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
	"github.com/vladislavdragonenkov/shop/internal/transport/httpapi"
)

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	milk   int64
	bread  int64
}

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore(time.Second)
	registry := prometheus.NewRegistry()
	recorder := metrics.NewShopMetricsWithRegisterer(registry)

	orderSvc := orders.NewService(store, orders.WithRecorder(recorder), orders.WithLogger(quietLogger()))
	catalogSvc := catalog.NewService(store, recorder, quietLogger())
	_, err := catalogSvc.SeedProducts(context.Background())
	require.NoError(t, err)

	products, err := catalogSvc.ListProducts(context.Background())
	require.NoError(t, err)

	healthHandler := health.NewHandler("test")
	healthHandler.RegisterChecker("storage", health.NewPingChecker("storage", store))

	router := httpapi.NewRouter(httpapi.RouterConfig{
		API:     httpapi.NewHandler(orderSvc, catalogSvc, quietLogger()),
		Health:  healthHandler,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:  quietLogger(),
	})

	return &testEnv{router: router, store: store, milk: products[0].ID, bread: products[1].ID}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type orderJSON struct {
	ID    int64 `json:"id"`
	Items []struct {
		ID          int64  `json:"id"`
		ProductName string `json:"product_name"`
		Quantity    int    `json:"quantity"`
		LineTotal   string `json:"line_total"`
	} `json:"items"`
	Total string `json:"total"`
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	products := decode[[]map[string]any](t, w)
	require.Len(t, products, 3)
	assert.Equal(t, "Milk", products[0]["name"])
	assert.Equal(t, "2.50", products[0]["price"])
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/orders/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No orders in system", decode[map[string]any](t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{"product_id": env.milk, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[orderJSON](t, w)
	require.Positive(t, created.ID)
	require.Len(t, created.Items, 1)

	w = env.do(t, http.MethodPost, "/api/v1/orders/"+itoa(created.ID)+"/items", map[string]any{"product_id": env.bread})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "applied", decode[map[string]any](t, w)["outcome"])

	w = env.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]orderJSON](t, w)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Items, 2)
	assert.Equal(t, "Milk", listed[0].Items[0].ProductName)
	assert.Equal(t, "5.00", listed[0].Items[0].LineTotal)
	assert.Equal(t, 1, listed[0].Items[1].Quantity)
	assert.Equal(t, "6.30", listed[0].Total)

	w = env.do(t, http.MethodGet, "/api/v1/orders/status", nil)
	assert.Equal(t, "Orders exist in system", decode[map[string]any](t, w)["status"])

	w = env.do(t, http.MethodDelete, "/api/v1/orders/"+itoa(created.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/orders/"+itoa(created.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "order_not_found", decode[map[string]any](t, w)["outcome"])
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/orders", map[string]any{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := decode[orderJSON](t, w).ID

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{name: "bad id", method: http.MethodDelete, path: "/api/v1/orders/abc", wantCode: http.StatusBadRequest},
		{name: "zero quantity", method: http.MethodPost, path: "/api/v1/orders/" + itoa(orderID) + "/items",
			body: map[string]any{"product_id": env.milk, "quantity": 0}, wantCode: http.StatusBadRequest},
		{name: "missing product id", method: http.MethodPost, path: "/api/v1/orders/" + itoa(orderID) + "/items",
			body: map[string]any{"quantity": 1}, wantCode: http.StatusBadRequest},
		{name: "missing order", method: http.MethodPost, path: "/api/v1/orders/9999/items",
			body: map[string]any{"product_id": env.milk}, wantCode: http.StatusNotFound},
		{name: "missing product", method: http.MethodPost, path: "/api/v1/orders/" + itoa(orderID) + "/items",
			body: map[string]any{"product_id": 9999}, wantCode: http.StatusNotFound},
		{name: "unknown product in new order", method: http.MethodPost, path: "/api/v1/orders",
			body: map[string]any{"items": []map[string]any{{"product_id": 9999}}}, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestStorageUnavailable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Close())

	w := env.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/livez", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", nil).Code)

	env.do(t, http.MethodGet, "/api/v1/orders", nil)
	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_operations_total")
}

type timeoutOrders struct{ httpapi.OrderService }

func (timeoutOrders) GetAllOrders(context.Context) ([]domain.Order, error) {
	return nil, domain.NewStorageError("list", errors.Join(domain.ErrTimeout, context.DeadlineExceeded))
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		API:    httpapi.NewHandler(timeoutOrders{}, nil, quietLogger()),
		Logger: quietLogger(),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
