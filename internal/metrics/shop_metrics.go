package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки outcome.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ShopMetrics содержит метрики операций сервиса заказов и каталога.
type ShopMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	storageErrors     *prometheus.CounterVec
	ordersCreated     prometheus.Counter
	itemsAdded        prometheus.Counter
}

// NewShopMetrics регистрирует метрики в глобальном реестре Prometheus.
func NewShopMetrics() *ShopMetrics {
	return NewShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewShopMetricsWithRegisterer регистрирует метрики в переданном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_operations_total",
			Help: "Total number of shop operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shop_operation_duration_seconds",
			Help:    "Duration of shop operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		storageErrors: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_storage_errors_total",
			Help: "Total number of storage failures by operation",
		}, []string{"operation"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_created_total",
			Help: "Total number of orders committed",
		}),
		itemsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_order_items_added_total",
			Help: "Total number of order items committed",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// ObserveOperation учитывает завершённую операцию: счётчик по исходу и длительность.
func (m *ShopMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStorageError увеличивает счётчик отказов хранилища.
func (m *ShopMetrics) RecordStorageError(operation string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(operation).Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *ShopMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordItemsAdded учитывает добавленные позиции.
func (m *ShopMetrics) RecordItemsAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsAdded.Add(float64(n))
}
