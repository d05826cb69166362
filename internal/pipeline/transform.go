package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
)

// Message header values describing the per-record outcome.
const (
	StatusTransformed = "transformed"
	StatusSkipped     = "skipped"
)

// RecordTransformer converts raw record messages using the domain transform.
// It implements Transformer.
type RecordTransformer struct {
	fields domain.FieldConfig
	logger *slog.Logger
}

// NewTransformer creates a RecordTransformer with the configured field names.
func NewTransformer(fields domain.FieldConfig, logger *slog.Logger) *RecordTransformer {
	return &RecordTransformer{fields: fields, logger: logger}
}

// Transform deserializes a message payload into a record, applies the
// coordinate transform, and reserializes. Soft skips produce the original
// record with a "skipped" status header; malformed payloads and validation
// failures return an error, which pipeline mode treats as a poison message.
func (t *RecordTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	var rec domain.Record
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return domain.OutputMessage{}, fmt.Errorf("parse record message: %w", err)
	}

	out, skip, err := domain.TransformRecord(rec, t.fields, t.logger)
	if err != nil {
		return domain.OutputMessage{}, err
	}

	status := StatusTransformed
	if skip != nil {
		status = StatusSkipped
	}

	value, err := json.Marshal(out)
	if err != nil {
		return domain.OutputMessage{}, fmt.Errorf("serialize record message: %w", err)
	}

	return domain.OutputMessage{
		Key:   raw.Key,
		Value: value,
		Headers: map[string]string{
			"transform_status": status,
			"processed_at":     clock.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
