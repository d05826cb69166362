package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/utm-transform-service/internal/config"
	"github.com/couchcryptid/utm-transform-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces transformed record messages to the sink topic.
// It implements pipeline.BatchLoader.
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

// LoadBatch publishes multiple output messages in a single WriteMessages
// call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	kmsgs := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		kmsgs[i] = mapOutputToMessage(msgs[i])
	}
	return w.writer.WriteMessages(ctx, kmsgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// mapOutputToMessage converts an OutputMessage into a Kafka message with
// headers in deterministic order.
func mapOutputToMessage(msg domain.OutputMessage) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(msg.Headers))
	for _, key := range []string{"transform_status", "processed_at"} {
		if v, ok := msg.Headers[key]; ok {
			headers = append(headers, kafkago.Header{Key: key, Value: []byte(v)})
		}
	}
	for key, v := range msg.Headers {
		if key == "transform_status" || key == "processed_at" {
			continue
		}
		headers = append(headers, kafkago.Header{Key: key, Value: []byte(v)})
	}
	return kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
