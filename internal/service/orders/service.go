package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Имена операций для метрик и логов.
const (
	opAddOrder          = "add_order"
	opRemoveOrder       = "remove_order"
	opGetAllOrders      = "get_all_orders"
	opAddProductToOrder = "add_product_to_order"
	opHasOrders         = "has_orders"
)

// Recorder принимает метрики операций сервиса. Реализуется metrics.ShopMetrics.
type Recorder interface {
	ObserveOperation(operation string, duration time.Duration, err error)
	RecordStorageError(operation string)
	RecordOrderCreated()
	RecordItemsAdded(n int)
}

// Option настраивает Service.
type Option func(*Service)

// WithPublisher подключает публикацию событий после фиксации.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithRecorder подключает метрики.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger задаёт логгер сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service: сервис заказов. Каждая операция выполняется в одной транзакции хранилища.
type Service struct {
	store     domain.Store
	publisher domain.EventPublisher
	recorder  Recorder
	now       func() time.Time
	logger    *log.Entry
}

// NewService создаёт сервис поверх store.
func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.New().WithField("component", "orders"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddOrder сохраняет заказ вместе с позициями и проставляет сгенерированные ID
// в переданный заказ. Пустая дата создания заменяется текущим временем.
func (s *Service) AddOrder(ctx context.Context, order *domain.Order) (err error) {
	defer s.observe(opAddOrder, time.Now(), &err)

	if order == nil {
		return domain.NewValidationError(errors.New("order is required"))
	}
	if err := order.Validate(); err != nil {
		return err
	}

	// Работаем с копией: при откате заказ вызывающего остаётся нетронутым.
	draft := domain.NewOrder(order.CreatedDate, order.Items...)
	if draft.CreatedDate.IsZero() {
		draft.CreatedDate = s.now()
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Orders().Add(ctx, &draft)
	})
	if err != nil {
		return err
	}

	order.ID = draft.ID
	order.CreatedDate = draft.CreatedDate
	order.Items = draft.Items

	if s.recorder != nil {
		s.recorder.RecordOrderCreated()
		s.recorder.RecordItemsAdded(len(draft.Items))
	}
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
	}).Info("order created")
	s.publish(ctx, domain.OrderEvent{Type: domain.OrderEventCreated, OrderID: order.ID})
	return nil
}

// RemoveOrder удаляет заказ и все его позиции. Отсутствующий заказ: не ошибка:
// возвращается OutcomeOrderNotFound, хранилище не меняется.
func (s *Service) RemoveOrder(ctx context.Context, orderID int64) (outcome domain.Outcome, err error) {
	defer s.observe(opRemoveOrder, time.Now(), &err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		order, err := tx.Orders().FindWithItems(ctx, orderID)
		if errors.Is(err, domain.ErrOrderNotFound) {
			outcome = domain.OutcomeOrderNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Orders().Remove(ctx, order.ID); err != nil {
			return err
		}
		outcome = domain.OutcomeApplied
		return nil
	})
	if err != nil {
		return "", err
	}

	logger := s.logger.WithField("order_id", orderID)
	if !outcome.Applied() {
		logger.Debug("order to remove not found")
		return outcome, nil
	}
	logger.Info("order removed")
	s.publish(ctx, domain.OrderEvent{Type: domain.OrderEventRemoved, OrderID: orderID})
	return outcome, nil
}

// GetAllOrders возвращает все заказы с позициями и товарами, по дате создания,
// при равенстве по ID.
func (s *Service) GetAllOrders(ctx context.Context) (orders []domain.Order, err error) {
	defer s.observe(opGetAllOrders, time.Now(), &err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		orders, err = tx.Orders().ListWithItems(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// AddProductToOrder добавляет позицию в существующий заказ. Количество проверяется
// до обращения к хранилищу. Отсутствие заказа или товара сообщается через Outcome.
func (s *Service) AddProductToOrder(ctx context.Context, orderID, productID int64, quantity int) (outcome domain.Outcome, err error) {
	defer s.observe(opAddProductToOrder, time.Now(), &err)

	if quantity < 1 {
		return "", domain.NewValidationError(domain.ErrQuantityInvalid)
	}
	item := domain.NewOrderItem(productID, quantity)
	item.OrderID = orderID

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if _, err := tx.Orders().Find(ctx, orderID); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				outcome = domain.OutcomeOrderNotFound
				return nil
			}
			return err
		}
		if _, err := tx.Products().Find(ctx, productID); err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				outcome = domain.OutcomeProductNotFound
				return nil
			}
			return err
		}
		if err := tx.OrderItems().Add(ctx, &item); err != nil {
			return err
		}
		outcome = domain.OutcomeApplied
		return nil
	})
	if err != nil {
		return "", err
	}

	logger := s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"product_id": productID,
		"quantity":   quantity,
	})
	if !outcome.Applied() {
		logger.WithField("outcome", outcome).Debug("product not added to order")
		return outcome, nil
	}

	if s.recorder != nil {
		s.recorder.RecordItemsAdded(1)
	}
	logger.WithField("item_id", item.ID).Info("product added to order")
	s.publish(ctx, domain.OrderEvent{
		Type:      domain.OrderEventItemAdded,
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return outcome, nil
}

// HasOrders сообщает, есть ли в системе хотя бы один заказ.
func (s *Service) HasOrders(ctx context.Context) (has bool, err error) {
	defer s.observe(opHasOrders, time.Now(), &err)

	var count int64
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		count, err = tx.Orders().Count(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// publish отправляет событие после фиксации. Ошибка публикации только логируется.
func (s *Service) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Occurred = s.now()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": event.OrderID,
			"event":    event.Type,
		}).Warn("failed to publish order event")
	}
}

func (s *Service) observe(operation string, start time.Time, errp *error) {
	if s.recorder == nil {
		return
	}
	err := *errp
	s.recorder.ObserveOperation(operation, time.Since(start), err)
	if errors.Is(err, domain.ErrStorage) {
		s.recorder.RecordStorageError(operation)
	}
}
