package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/config"
	"github.com/couchcryptid/weather-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes weather observations to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Load publishes a single observation keyed by city.
func (w *Writer) Load(ctx context.Context, obs domain.Observation) error {
	msg, err := serializeToMessage(obs)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", w.writer.Topic, err)
	}
	w.logger.Debug("observation published", "topic", w.writer.Topic, "city", obs.City)
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message.
func serializeToMessage(obs domain.Observation) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(obs.RunID)},
			{Key: "loaded_at", Value: []byte(obs.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
