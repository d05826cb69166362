package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRaw(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"easting":"500000"}`),
		Topic:     "utm-records",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("survey")},
		},
	}

	r := &Reader{}
	raw := r.mapMessageToRaw(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"easting":"500000"}`, string(raw.Value))
	assert.Equal(t, "utm-records", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "survey", raw.Headers["source"])
	require.NotNil(t, raw.Commit)
}

func TestMapOutputToMessage(t *testing.T) {
	out := domain.OutputMessage{
		Key:   []byte("rec-1"),
		Value: []byte(`{"lat":59.9}`),
		Headers: map[string]string{
			"transform_status": "transformed",
			"processed_at":     "2026-03-14T09:26:53Z",
		},
	}

	msg := mapOutputToMessage(out)

	assert.Equal(t, []byte("rec-1"), msg.Key)
	assert.Equal(t, []byte(`{"lat":59.9}`), msg.Value)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "transform_status", msg.Headers[0].Key)
	assert.Equal(t, []byte("transformed"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-14T09:26:53Z"), msg.Headers[1].Value)
}
