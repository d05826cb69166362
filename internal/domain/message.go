package domain

import (
	"context"
	"time"
)

// RawMessage represents an unprocessed record message from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is the serialized transformed record destined for the sink
// topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
