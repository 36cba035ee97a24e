// Команда shop создаёт схему, заполняет каталог и печатает заказы с их состоянием.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
)

func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
}

func main() {
	cfg, err := app.ConfigFromEnv(os.LookupEnv)
	if err != nil {
		setupLogger(log.InfoLevel)
		log.WithError(err).Fatal("некорректная конфигурация")
	}
	// Консоль печатает отчёт в stdout, поэтому по умолчанию логи только с предупреждений.
	if _, ok := os.LookupEnv("SHOP_LOG_LEVEL"); !ok {
		cfg.LogLevel = log.WarnLevel
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsole(ctx, cfg, os.Stdout); err != nil {
		log.WithError(err).Fatal("консольный сценарий завершился с ошибкой")
	}
}
