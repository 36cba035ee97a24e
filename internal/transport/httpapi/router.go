package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/health"
)

// APIPrefix: префикс версионированного API.
const APIPrefix = "/api/v1"

// RouterConfig задаёт зависимости HTTP-роутера.
type RouterConfig struct {
	API     *Handler
	Health  *health.Handler
	Metrics http.Handler
	Logger  *log.Entry
}

// NewRouter собирает gin-роутер: API, health-пробы и /metrics.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	if cfg.API != nil {
		cfg.API.Register(r.Group(APIPrefix))
	}
	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	return r
}
