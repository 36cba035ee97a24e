package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/storage/gormstore"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// openStore открывает хранилище выбранного драйвера и создаёт схему.
func openStore(ctx context.Context, cfg Config, logger *log.Entry) (domain.Store, error) {
	var store domain.Store

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store = memory.NewStore(cfg.OperationTimeout)
	case StorageDriverSQLite, StorageDriverPostgres:
		driver := gormstore.DriverPostgres
		if cfg.StorageDriver == StorageDriverSQLite {
			driver = gormstore.DriverSQLite
		}
		gs, err := gormstore.Open(ctx, gormstore.Config{
			Driver:    driver,
			DSN:       cfg.DSN,
			OpTimeout: cfg.OperationTimeout,
			Logger:    logger.WithField("component", "gormstore"),
		})
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
		}
		store = gs
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.WithField("driver", cfg.StorageDriver).Info("storage initialized")
	return store, nil
}
