package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// Publisher интерфейс отправки сообщений в очередь
type Publisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// KafkaProducer обертка над kafka.Writer с метриками
type KafkaProducer struct {
	writer  *kafka.Writer
	topic   string
	service string
}

// NewKafkaProducer создает producer для топика
// service используется как label в метриках
func NewKafkaProducer(brokers []string, topic string, service string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // один ключ - одна партиция, порядок событий сущности сохраняется
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaProducer{writer: writer, topic: topic, service: service}
}

// PublishMessage отправляет одно сообщение
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	timer := metrics.NewKafkaProduceTimer(p.service, p.topic)

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	return nil
}

// Close закрывает writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// PublishEvent сериализует событие и отправляет его
// Ошибка публикации только логируется: событие вторично по отношению к записи в БД
func PublishEvent(ctx context.Context, publisher Publisher, key string, event interface{}) {
	if publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal event")
		return
	}

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to publish event")
	}
}
