package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-normals/internal/config"
	"github.com/couchcryptid/rainfall-normals/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes finished rankings to a Kafka topic.
// It implements pipeline.ResultPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured rankings topic.
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

// Publish serializes the result and writes it keyed by station, so repeated
// lookups of one station land on the same partition.
func (w *Writer) Publish(ctx context.Context, result domain.Result) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write ranking message: %w", err)
	}
	w.logger.Debug("ranking published", "key", string(msg.Key), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// MessageKey identifies a station as {regionCode}-{stationCode}.
func MessageKey(result domain.Result) string {
	return result.Report.RegionCode + "-" + result.Report.StationCode
}

// serializeToMessage marshals a Result into a Kafka message.
func serializeToMessage(result domain.Result) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize ranking result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey(result)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(result.Outcome)},
			{Key: "generated_at", Value: []byte(result.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
