// Package httpapi публикует сервисы заказов и каталога по HTTP (gin).
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/report"
)

// OrderService: операции заказов, нужные HTTP-слою.
type OrderService interface {
	AddOrder(ctx context.Context, order *domain.Order) error
	RemoveOrder(ctx context.Context, orderID int64) (domain.Outcome, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	AddProductToOrder(ctx context.Context, orderID, productID int64, quantity int) (domain.Outcome, error)
}

// CatalogService: операции каталога, нужные HTTP-слою.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Handler содержит обработчики /api/v1.
type Handler struct {
	orders  OrderService
	catalog CatalogService
	logger  *log.Entry
}

// NewHandler создаёт обработчики API.
func NewHandler(orders OrderService, catalog CatalogService, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{orders: orders, catalog: catalog, logger: logger}
}

// Register подключает маршруты API к группе.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/products", h.listProducts)
	r.GET("/orders", h.listOrders)
	r.GET("/orders/status", h.orderStatus)
	r.POST("/orders", h.createOrder)
	r.DELETE("/orders/:id", h.removeOrder)
	r.POST("/orders/:id/items", h.addItem)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o, true))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) orderStatus(c *gin.Context) {
	status, err := report.QueryStatus(c.Request.Context(), h.orders)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		Status:    status,
		HasOrders: status == report.StatusHasOrders,
	})
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	order := req.toDomain()
	if err := h.orders.AddOrder(c.Request.Context(), &order); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(order, false))
}

func (h *Handler) removeOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	outcome, err := h.orders.RemoveOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeOutcome(c, outcome, http.StatusNoContent)
}

func (h *Handler) addItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	item := req.toDomain()

	outcome, err := h.orders.AddProductToOrder(c.Request.Context(), id, item.ProductID, item.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeOutcome(c, outcome, http.StatusCreated)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id: " + c.Param("id")})
		return 0, false
	}
	return id, true
}

// RequestLogger пишет в лог каждый запрос с кодом ответа и длительностью.
func RequestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("http request")
	}
}
