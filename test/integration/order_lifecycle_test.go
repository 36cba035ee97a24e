package integration

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/report"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/orders"
	"github.com/vladislavdragonenkov/shop/internal/storage/gormstore"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// OrderLifecycleTestSuite проверяет полный сценарий работы с заказами поверх хранилища.
type OrderLifecycleTestSuite struct {
	suite.Suite
	openStore func() (domain.Store, error)

	store   domain.Store
	orders  *orders.Service
	catalog *catalog.Service
	milk    domain.Product
	bread   domain.Product
}

func (s *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	store, err := s.openStore()
	s.Require().NoError(err)
	s.Require().NoError(store.EnsureSchema(context.Background()))
	s.store = store

	recorder := metrics.NewShopMetricsWithRegisterer(prometheus.NewRegistry())
	s.orders = orders.NewService(store, orders.WithRecorder(recorder), orders.WithLogger(logger))
	s.catalog = catalog.NewService(store, recorder, logger)

	seeded, err := s.catalog.SeedProducts(context.Background())
	s.Require().NoError(err)
	s.Require().True(seeded)

	products, err := s.catalog.ListProducts(context.Background())
	s.Require().NoError(err)
	s.Require().Len(products, 3)
	s.milk, s.bread = products[0], products[1]
}

func (s *OrderLifecycleTestSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

func (s *OrderLifecycleTestSuite) TestEndToEndTotal() {
	ctx := context.Background()

	order := domain.NewOrder(time.Time{})
	s.Require().NoError(s.orders.AddOrder(ctx, &order))
	s.Require().Positive(order.ID)

	outcome, err := s.orders.AddProductToOrder(ctx, order.ID, s.milk.ID, 2)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeApplied, outcome)
	outcome, err = s.orders.AddProductToOrder(ctx, order.ID, s.bread.ID, domain.DefaultQuantity)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeApplied, outcome)

	all, err := s.orders.GetAllOrders(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Require().Len(all[0].Items, 2)
	s.Equal("6.30", all[0].Total().StringFixed(2))

	var buf bytes.Buffer
	s.Require().NoError(report.WriteOrders(&buf, all))
	s.Contains(buf.String(), "  Milk x 2 = 5.00$\n")
	s.Contains(buf.String(), "Total: 6.30$\n")

	status, err := report.QueryStatus(ctx, s.orders)
	s.Require().NoError(err)
	s.Equal(report.StatusHasOrders, status)
}

func (s *OrderLifecycleTestSuite) TestRemoveOrderRemovesItems() {
	ctx := context.Background()

	order := domain.NewOrder(time.Time{},
		domain.NewOrderItem(s.milk.ID, 1),
		domain.NewOrderItem(s.bread.ID, 3),
	)
	s.Require().NoError(s.orders.AddOrder(ctx, &order))
	itemIDs := []int64{order.Items[0].ID, order.Items[1].ID}

	outcome, err := s.orders.RemoveOrder(ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeApplied, outcome)

	for _, id := range itemIDs {
		err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
			_, err := tx.OrderItems().Find(ctx, id)
			return err
		})
		s.ErrorIs(err, domain.ErrOrderItemNotFound)
	}

	has, err := s.orders.HasOrders(ctx)
	s.Require().NoError(err)
	s.False(has)
}

func (s *OrderLifecycleTestSuite) TestMissingEntitiesLeaveStoreUnchanged() {
	ctx := context.Background()

	order := domain.NewOrder(time.Time{}, domain.NewOrderItem(s.milk.ID, 1))
	s.Require().NoError(s.orders.AddOrder(ctx, &order))
	before, err := s.orders.GetAllOrders(ctx)
	s.Require().NoError(err)

	outcome, err := s.orders.RemoveOrder(ctx, order.ID+1000)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeOrderNotFound, outcome)

	outcome, err = s.orders.AddProductToOrder(ctx, order.ID+1000, s.milk.ID, 1)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeOrderNotFound, outcome)

	outcome, err = s.orders.AddProductToOrder(ctx, order.ID, s.milk.ID+1000, 1)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeProductNotFound, outcome)

	after, err := s.orders.GetAllOrders(ctx)
	s.Require().NoError(err)
	s.Require().Len(after, len(before))
	s.Len(after[0].Items, len(before[0].Items))
}

func (s *OrderLifecycleTestSuite) TestReferencedProductCannotBeRemoved() {
	ctx := context.Background()

	order := domain.NewOrder(time.Time{}, domain.NewOrderItem(s.milk.ID, 1))
	s.Require().NoError(s.orders.AddOrder(ctx, &order))

	_, err := s.catalog.RemoveProduct(ctx, s.milk.ID)
	s.ErrorIs(err, domain.ErrProductInUse)

	_, err = s.orders.RemoveOrder(ctx, order.ID)
	s.Require().NoError(err)

	outcome, err := s.catalog.RemoveProduct(ctx, s.milk.ID)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeApplied, outcome)
}

func (s *OrderLifecycleTestSuite) TestEnsureSchemaTwiceKeepsData() {
	ctx := context.Background()

	s.Require().NoError(s.store.EnsureSchema(ctx))

	seeded, err := s.catalog.SeedProducts(ctx)
	s.Require().NoError(err)
	s.False(seeded)

	products, err := s.catalog.ListProducts(ctx)
	s.Require().NoError(err)
	s.Len(products, 3)
}

func TestOrderLifecycleMemory(t *testing.T) {
	suite.Run(t, &OrderLifecycleTestSuite{
		openStore: func() (domain.Store, error) {
			return memory.NewStore(5 * time.Second), nil
		},
	})
}

func TestOrderLifecycleSQLite(t *testing.T) {
	suite.Run(t, &OrderLifecycleTestSuite{
		openStore: func() (domain.Store, error) {
			return gormstore.Open(context.Background(), gormstore.Config{
				Driver:    gormstore.DriverSQLite,
				DSN:       fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
				OpTimeout: 5 * time.Second,
			})
		},
	})
}
