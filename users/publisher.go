package users

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	slog.Info("Kafka producer created with", "topic", writer.Topic)

	return &KafkaPublisher{
		Writer: writer,
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return k.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.Writer.Close()
}

// LogPublisher stands in for Kafka when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, key string, value []byte) error {
	slog.Debug("Event not published, no broker configured", "key", key, "size", len(value))
	return nil
}
