package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const (
	opSeedProducts  = "seed_products"
	opListProducts  = "list_products"
	opAddProduct    = "add_product"
	opRemoveProduct = "remove_product"
)

// Recorder принимает метрики операций каталога.
type Recorder interface {
	ObserveOperation(operation string, duration time.Duration, err error)
	RecordStorageError(operation string)
}

// InitialProducts возвращает стартовый набор товаров каталога.
func InitialProducts() []domain.Product {
	return []domain.Product{
		domain.NewProduct("Milk", decimal.RequireFromString("2.50")),
		domain.NewProduct("Bread", decimal.RequireFromString("1.30")),
		domain.NewProduct("Apples", decimal.RequireFromString("3.00")),
	}
}

// Service управляет товарами каталога.
type Service struct {
	store    domain.Store
	recorder Recorder
	logger   *log.Entry
}

// NewService создаёт сервис каталога. recorder может быть nil.
func NewService(store domain.Store, recorder Recorder, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{store: store, recorder: recorder, logger: logger}
}

// SeedProducts добавляет стартовые товары, если каталог пуст. Проверка и вставка
// выполняются в одной транзакции. Возвращает true, если товары были добавлены.
func (s *Service) SeedProducts(ctx context.Context) (seeded bool, err error) {
	defer s.observe(opSeedProducts, time.Now(), &err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		count, err := tx.Products().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, product := range InitialProducts() {
			if err := tx.Products().Add(ctx, &product); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		s.logger.Info("seeded initial products")
	}
	return seeded, nil
}

// ListProducts возвращает все товары по возрастанию ID.
func (s *Service) ListProducts(ctx context.Context) (products []domain.Product, err error) {
	defer s.observe(opListProducts, time.Now(), &err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		products, err = tx.Products().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct проверяет и сохраняет товар, проставляя ему ID.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product) (err error) {
	defer s.observe(opAddProduct, time.Now(), &err)

	if product == nil {
		return domain.NewValidationError(errors.New("product is required"))
	}
	normalized := domain.NewProduct(product.Name, product.Price)
	if err := normalized.Validate(); err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Products().Add(ctx, &normalized)
	})
	if err != nil {
		return err
	}

	*product = normalized
	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("product added")
	return nil
}

// RemoveProduct удаляет товар. Товар, на который ссылаются позиции заказов,
// не удаляется: возвращается domain.ErrProductInUse.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) (outcome domain.Outcome, err error) {
	defer s.observe(opRemoveProduct, time.Now(), &err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		err := tx.Products().Remove(ctx, productID)
		if errors.Is(err, domain.ErrProductNotFound) {
			outcome = domain.OutcomeProductNotFound
			return nil
		}
		if err != nil {
			return err
		}
		outcome = domain.OutcomeApplied
		return nil
	})
	if err != nil {
		return "", err
	}
	if outcome.Applied() {
		s.logger.WithField("product_id", productID).Info("product removed")
	}
	return outcome, nil
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
