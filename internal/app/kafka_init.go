package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

// initKafkaProducer создаёт producer, если брокеры заданы. Ошибка подключения
// не останавливает приложение: события просто не публикуются.
func initKafkaProducer(cfg Config, logger *log.Entry) *kafka.Producer {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		return nil
	}

	producer, err := kafka.NewProducer(brokers, cfg.KafkaTopic, logger.WithField("component", "kafka-producer"))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithFields(log.Fields{
		"brokers": brokers,
		"topic":   producer.Topic(),
	}).Info("kafka producer initialized")
	return producer
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
