package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/orders"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Store    domain.Store
	Orders   *orders.Service
	Catalog  *catalog.Service
	Metrics  *metrics.ShopMetrics
	Producer *kafka.Producer
	Logger   *log.Entry
}

// NewDependencies открывает хранилище и собирает сервисы. Метрики регистрируются
// в registerer (nil: глобальный реестр).
func NewDependencies(ctx context.Context, cfg Config, registerer prometheus.Registerer, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	shopMetrics := metrics.NewShopMetricsWithRegisterer(registerer)
	producer := initKafkaProducer(cfg, logger)

	opts := []orders.Option{
		orders.WithRecorder(shopMetrics),
		orders.WithLogger(logger.WithField("component", "orders")),
	}
	if producer != nil {
		opts = append(opts, orders.WithPublisher(producer))
	}

	return &Dependencies{
		Store:    store,
		Orders:   orders.NewService(store, opts...),
		Catalog:  catalog.NewService(store, shopMetrics, logger.WithField("component", "catalog")),
		Metrics:  shopMetrics,
		Producer: producer,
		Logger:   logger,
	}, nil
}

// Close освобождает producer и хранилище.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}
	closeKafka(d.Producer, d.Logger)
	return d.Store.Close()
}
