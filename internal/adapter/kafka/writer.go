package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/avalanche-geofeed/internal/config"
	"github.com/couchcryptid/avalanche-geofeed/internal/domain"
)

// messageKey keys every feed message so all runs land on one partition and
// consumers see collections in publication order.
const messageKey = "avalanche-feed"

// Writer publishes the per-run FeatureCollection to the sink topic.
// It implements runner.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish submits one feature collection as a single message. Submission is
// atomic from the feed's perspective: either the whole collection lands on
// the topic or the run fails.
func (w *Writer) Publish(ctx context.Context, collection domain.FeatureCollection) error {
	msg, err := serializeToMessage(collection)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write feature collection: %w", err)
	}
	w.logger.Info("ok - feature collection published", "features", len(collection.Features))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FeatureCollection into a Kafka message.
func serializeToMessage(collection domain.FeatureCollection) (kafkago.Message, error) {
	data, err := json.Marshal(collection)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature collection: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "feature_count", Value: []byte(strconv.Itoa(len(collection.Features)))},
			{Key: "generated_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
