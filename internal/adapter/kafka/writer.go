package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/penguin-scatter/internal/config"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
)

// Writer publishes hover events to a Kafka topic.
// It implements app.HoverPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured hover topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaHoverTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes a single hover event. Events are keyed
// by the category involved so a consumer sees each category in order.
func (w *Writer) Publish(ctx context.Context, ev domain.HoverEvent) error {
	msg, err := serializeToMessage(ev, uuid.NewString())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write hover event: %w", err)
	}
	w.logger.Debug("hover event published", "kind", ev.Kind, "category", ev.Category)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a HoverEvent into a Kafka message.
func serializeToMessage(ev domain.HoverEvent, id string) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hover event: %w", err)
	}
	key := ev.Category
	if key == "" {
		key = ev.Previous
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Time:  ev.At,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(id)},
			{Key: "event_kind", Value: []byte(ev.Kind)},
			{Key: "occurred_at", Value: []byte(ev.At.Format(time.RFC3339Nano))},
		},
	}, nil
}
