package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vladislavdragonenkov/shop/internal/report"
)

// SeededMessage печатается после заполнения пустого каталога.
const SeededMessage = "Seeded initial products"

// RunConsole выполняет консольный сценарий: схема, начальные товары, список
// заказов и строка состояния.
func RunConsole(ctx context.Context, cfg Config, out io.Writer) error {
	deps, err := NewDependencies(ctx, cfg, nil, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Logger.WithError(err).Warn("failed to close dependencies")
		}
	}()

	return runConsole(ctx, cfg, deps, out)
}

func runConsole(ctx context.Context, cfg Config, deps *Dependencies, out io.Writer) error {
	if err := seed(ctx, cfg, deps, out); err != nil {
		return err
	}

	orders, err := deps.Orders.GetAllOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if err := report.WriteOrders(out, orders); err != nil {
		return fmt.Errorf("write orders: %w", err)
	}

	status, err := report.QueryStatus(ctx, deps.Orders)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, status)
	return err
}

// seed заполняет пустой каталог, если это разрешено настройками.
func seed(ctx context.Context, cfg Config, deps *Dependencies, out io.Writer) error {
	if !cfg.SeedProducts {
		return nil
	}
	seeded, err := deps.Catalog.SeedProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if seeded && out != nil {
		if _, err := fmt.Fprintln(out, SeededMessage); err != nil {
			return err
		}
	}
	return nil
}
