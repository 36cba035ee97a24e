package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Driver задаёт реляционный бэкенд.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultOpTimeout       = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	slowQueryThreshold     = 200 * time.Millisecond
)

// Config описывает подключение к реляционному хранилищу.
type Config struct {
	Driver Driver
	DSN    string
	// OpTimeout ограничивает каждую транзакцию. 0: значение по умолчанию.
	OpTimeout time.Duration
	Logger    *log.Entry
}

// Store оборачивает GORM-подключение и реализует domain.Store.
type Store struct {
	db        *gorm.DB
	driver    Driver
	opTimeout time.Duration
	txOptions *sql.TxOptions
}

// Open открывает подключение и проверяет доступность базы.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "gormstore")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, storageError("open "+string(cfg.Driver), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, storageError("open "+string(cfg.Driver), err)
	}

	store := &Store{
		db:        db,
		driver:    cfg.Driver,
		opTimeout: cfg.OpTimeout,
	}
	if store.opTimeout <= 0 {
		store.opTimeout = defaultOpTimeout
	}

	switch cfg.Driver {
	case DriverPostgres:
		sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
		sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
		sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(defaultConnMaxIdleTime)
		store.txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	case DriverSQLite:
		// Одно соединение: in-memory база живёт, пока оно открыто, а SQLite
		// всё равно сериализует запись.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	if err := store.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return store, nil
}

func dialectorFor(driver Driver, dsn string) (gorm.Dialector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("dsn is required for %s driver", driver)
	}
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}
}

// sqliteDSN включает проверку внешних ключей: без неё SQLite их игнорирует.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// DB возвращает GORM-подключение, когда нужен низкоуровневый доступ.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Driver возвращает бэкенд хранилища.
func (s *Store) Driver() Driver {
	return s.driver
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return domain.NewStorageError("ping", errors.New("store is not initialized"))
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageError("ping", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return storageError("ping", sqlDB.PingContext(pingCtx))
}

// EnsureSchema создаёт недостающие таблицы с ограничениями. Существующие таблицы
// не изменяются, поэтому повторный вызов ничего не делает.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return domain.NewStorageError("ensure schema", errors.New("store is not initialized"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	migrator := s.db.WithContext(ctx).Migrator()
	for _, model := range []any{&productRow{}, &orderRow{}, &orderItemRow{}} {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return storageError("ensure schema", err)
		}
	}
	return nil
}

// WithinTx выполняет fn в одной транзакции, ограниченной таймаутом операции.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	if s == nil || s.db == nil {
		return domain.NewStorageError("begin tx", errors.New("store is not initialized"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(ctx, &session{db: gtx})
	}, s.txOptions)
	if err != nil && ctx.Err() != nil && !isDomainError(err) {
		return storageError("transaction", ctx.Err())
	}
	return storageError("transaction", err)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type session struct {
	db *gorm.DB
}

func (s *session) Products() domain.ProductRepository     { return &productRepository{db: s.db} }
func (s *session) Orders() domain.OrderRepository         { return &orderRepository{db: s.db} }
func (s *session) OrderItems() domain.OrderItemRepository { return &orderItemRepository{db: s.db} }

var _ domain.Store = (*Store)(nil)
