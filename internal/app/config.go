package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// StorageDriver задаёт бэкенд хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
)

// DefaultSQLiteDSN: файл базы в рабочем каталоге, если SHOP_DSN не задан.
const DefaultSQLiteDSN = "shop.db"

// Переменные окружения конфигурации.
const (
	envHTTPAddr           = "SHOP_HTTP_ADDR"
	envGRPCAddr           = "SHOP_GRPC_ADDR"
	envStorageDriver      = "SHOP_STORAGE_DRIVER"
	envDSN                = "SHOP_DSN"
	envOperationTimeout   = "SHOP_OPERATION_TIMEOUT"
	envSeedProducts       = "SHOP_SEED_PRODUCTS"
	envKafkaBrokers       = "SHOP_KAFKA_BROKERS"
	envKafkaTopic         = "SHOP_KAFKA_TOPIC"
	envHealthPollInterval = "SHOP_HEALTH_POLL_INTERVAL"
	envLogLevel           = "SHOP_LOG_LEVEL"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr string
	GRPCAddr string

	StorageDriver StorageDriver
	// DSN подключения. Для memory не используется.
	DSN              string
	OperationTimeout time.Duration
	SeedProducts     bool

	// KafkaBrokers: список брокеров через запятую. Пусто: события не публикуются.
	KafkaBrokers string
	KafkaTopic   string

	HealthPollInterval time.Duration
	LogLevel           log.Level
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		GRPCAddr:           ":50051",
		StorageDriver:      StorageDriverSQLite,
		DSN:                DefaultSQLiteDSN,
		OperationTimeout:   5 * time.Second,
		SeedProducts:       true,
		KafkaTopic:         "shop.order.events",
		HealthPollInterval: 5 * time.Second,
		LogLevel:           log.InfoLevel,
	}
}

// Brokers возвращает список брокеров Kafka без пустых элементов.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverSQLite, StorageDriverPostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("%s is required for %s storage driver", envDSN, c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.StorageDriver)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("%s must be positive", envOperationTimeout)
	}
	if c.HealthPollInterval <= 0 {
		return fmt.Errorf("%s must be positive", envHealthPollInterval)
	}
	return nil
}

// ConfigFromEnv читает SHOP_* переменные поверх DefaultConfig. lookup обычно os.LookupEnv.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(envHTTPAddr); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get(envGRPCAddr); ok {
		cfg.GRPCAddr = v
	}
	if v, ok := get(envStorageDriver); ok {
		cfg.StorageDriver = StorageDriver(strings.ToLower(v))
		// Файл SQLite по умолчанию не подходит другим драйверам.
		if cfg.StorageDriver != StorageDriverSQLite {
			cfg.DSN = ""
		}
	}
	if v, ok := get(envDSN); ok {
		cfg.DSN = v
	}
	if v, ok := get(envOperationTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envOperationTimeout, err)
		}
		cfg.OperationTimeout = d
	}
	if v, ok := get(envSeedProducts); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envSeedProducts, err)
		}
		cfg.SeedProducts = b
	}
	if v, ok := get(envKafkaBrokers); ok {
		cfg.KafkaBrokers = v
	}
	if v, ok := get(envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := get(envHealthPollInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envHealthPollInterval, err)
		}
		cfg.HealthPollInterval = d
	}
	if v, ok := get(envLogLevel); ok {
		level, err := log.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}
