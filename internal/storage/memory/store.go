package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type orderRecord struct {
	ID          int64
	CreatedDate time.Time
}

type itemRecord struct {
	ID        int64
	ProductID int64
	OrderID   int64
	Quantity  int
}

// state: снимок всех таблиц. Транзакция работает с копией и подменяет её при фиксации.
type state struct {
	products map[int64]domain.Product
	orders   map[int64]orderRecord
	items    map[int64]itemRecord

	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
}

func newState() *state {
	return &state{
		products: make(map[int64]domain.Product),
		orders:   make(map[int64]orderRecord),
		items:    make(map[int64]itemRecord),
	}
}

func (s *state) clone() *state {
	cp := &state{
		products:      make(map[int64]domain.Product, len(s.products)),
		orders:        make(map[int64]orderRecord, len(s.orders)),
		items:         make(map[int64]itemRecord, len(s.items)),
		nextProductID: s.nextProductID,
		nextOrderID:   s.nextOrderID,
		nextItemID:    s.nextItemID,
	}
	for id, p := range s.products {
		cp.products[id] = p
	}
	for id, o := range s.orders {
		cp.orders[id] = o
	}
	for id, i := range s.items {
		cp.items[id] = i
	}
	return cp
}

// Store: in-memory реализация domain.Store для локальной разработки и тестов.
// Транзакции сериализуются мьютексом; ограничения FK и CHECK повторяют реляционную схему.
type Store struct {
	mu        sync.Mutex
	state     *state
	opTimeout time.Duration
	closed    bool
}

// NewStore создаёт пустое хранилище. opTimeout<=0 отключает таймаут операций.
func NewStore(opTimeout time.Duration) *Store {
	return &Store{state: newState(), opTimeout: opTimeout}
}

// EnsureSchema ничего не создаёт: схема задана структурами в памяти.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.Ping(ctx)
}

// Ping проверяет, что хранилище не закрыто.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewStorageError("ping", errors.New("memory store is closed"))
	}
	if err := ctx.Err(); err != nil {
		return contextError("ping", err)
	}
	return nil
}

// WithinTx выполняет fn над копией состояния и подменяет состояние, если fn вернула nil
// и контекст ещё не истёк.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewStorageError("begin tx", errors.New("memory store is closed"))
	}
	if err := ctx.Err(); err != nil {
		return contextError("begin tx", err)
	}

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, domain.ErrStorage) {
			return contextError("transaction", ctxErr)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return contextError("commit", err)
	}

	s.state = work
	return nil
}

// Close помечает хранилище закрытым. Повторный вызов безопасен.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type tx struct {
	state *state
}

func (t *tx) Products() domain.ProductRepository     { return &productRepository{state: t.state} }
func (t *tx) Orders() domain.OrderRepository         { return &orderRepository{state: t.state} }
func (t *tx) OrderItems() domain.OrderItemRepository { return &orderItemRepository{state: t.state} }

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewStorageError(op, fmt.Errorf("%w: %w", domain.ErrTimeout, err))
	}
	return domain.NewStorageError(op, err)
}

func constraintError(op, constraint string) error {
	return domain.NewStorageError(op, fmt.Errorf("%w: %s", domain.ErrConstraintViolation, constraint))
}

var _ domain.Store = (*Store)(nil)
