package shared

import (
	"net"
	"time"

	"github.com/segmentio/kafka-go"
)

func getBootstrapServer(cfg *Config) string {
	port := cfg.KafkaPort
	if port == "" {
		port = "9092"
	}
	return net.JoinHostPort(cfg.KafkaHost, port)
}

// NewProducer returns nil when no KAFKA_HOST is configured.
func NewProducer(cfg *Config, topic string) *kafka.Writer {
	if cfg.KafkaHost == "" {
		return nil
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(getBootstrapServer(cfg)),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}
