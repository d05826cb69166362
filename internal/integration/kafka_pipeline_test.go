//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/utm-transform-service/internal/adapter/kafka"
	"github.com/couchcryptid/utm-transform-service/internal/config"
	"github.com/couchcryptid/utm-transform-service/internal/domain"
	"github.com/couchcryptid/utm-transform-service/internal/observability"
	"github.com/couchcryptid/utm-transform-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testSourceTopic = "test-utm-records"
	testSinkTopic   = "test-latlong-records"
)

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	err = conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err, "create topic %s", topic)
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-group-%d", time.Now().UnixNano()),
		BatchSize:          10,
		BatchFlushInterval: 5 * time.Second,
		Fields: domain.FieldConfig{
			Easting:           "easting",
			Northing:          "northing",
			Zone:              "zone",
			Hemisphere:        "hemi",
			ZoneDefault:       "32",
			HemisphereDefault: "0",
			NorthernValue:     "0",
			Latitude:          "lat",
			Longitude:         "long",
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func publish(ctx context.Context, t *testing.T, broker, topic, key, value string) {
	t.Helper()

	w := &kafkago.Writer{
		Addr:     kafkago.TCP(broker),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	defer w.Close()

	err := w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: []byte(value),
	})
	require.NoError(t, err, "publish to %s", topic)
}

func sinkConsumer(broker string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
}

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Record  map[string]any
	Key     string
	Headers map[string]string
}

func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal sink message")

	return sinkMessage{Record: record, Key: string(msg.Key), Headers: headers}
}

// TestKafkaReaderWriter verifies the adapter layer round-trips a message:
// kafka.Reader extracts it, the transformer converts it, kafka.Writer loads it.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker)
	logger := discardLogger()

	publish(ctx, t, broker, testSourceTopic, "oslo",
		`{"easting":"597977","northing":"6643315","zone":"32","hemi":"0"}`)

	reader := kafka.NewReader(cfg, logger)
	defer reader.Close()

	batch, err := reader.ExtractBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "oslo", string(batch[0].Key))

	transformer := pipeline.NewTransformer(cfg.Fields, logger)
	out, err := transformer.Transform(ctx, batch[0])
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputMessage{out}))

	consumer := sinkConsumer(broker)
	defer consumer.Close()

	got := readSink(ctx, t, consumer)
	assert.Equal(t, "oslo", got.Key)
	assert.Equal(t, pipeline.StatusTransformed, got.Headers["transform_status"])
	assert.InDelta(t, 59.915659903617424, got.Record["lat"], 1e-9)
	assert.InDelta(t, 10.752240851426572, got.Record["long"], 1e-9)
}

// TestPipelineEndToEnd runs the full pipeline against a live broker and
// checks transformed and skipped records both reach the sink in order.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker)
	logger := discardLogger()

	reader := kafka.NewReader(cfg, logger)
	defer reader.Close()
	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()
	transformer := pipeline.NewTransformer(cfg.Fields, logger)

	p := pipeline.New(reader, transformer, writer, logger,
		observability.NewMetricsForTesting(), cfg.BatchSize)

	runCtx, stopPipeline := context.WithCancel(ctx)
	defer stopPipeline()
	go func() {
		_ = p.Run(runCtx)
	}()

	publish(ctx, t, broker, testSourceTopic, "sydney",
		`{"easting":"334873","northing":"6252266","zone":"56","hemi":"1"}`)
	publish(ctx, t, broker, testSourceTopic, "incomplete",
		`{"northing":"6252266","zone":"56","hemi":"1"}`)

	consumer := sinkConsumer(broker)
	defer consumer.Close()

	first := readSink(ctx, t, consumer)
	assert.Equal(t, "sydney", first.Key)
	assert.Equal(t, pipeline.StatusTransformed, first.Headers["transform_status"])
	assert.InDelta(t, -33.85700079882241, first.Record["lat"], 1e-9)
	assert.InDelta(t, 151.21499783429277, first.Record["long"], 1e-9)

	second := readSink(ctx, t, consumer)
	assert.Equal(t, "incomplete", second.Key)
	assert.Equal(t, pipeline.StatusSkipped, second.Headers["transform_status"])
	assert.NotContains(t, second.Record, "lat")
}

// TestPipelineSkipsPoisonMessage checks an unparseable payload is skipped
// and committed so later messages still flow.
func TestPipelineSkipsPoisonMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker)
	logger := discardLogger()

	reader := kafka.NewReader(cfg, logger)
	defer reader.Close()
	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()
	transformer := pipeline.NewTransformer(cfg.Fields, logger)

	p := pipeline.New(reader, transformer, writer, logger,
		observability.NewMetricsForTesting(), cfg.BatchSize)

	runCtx, stopPipeline := context.WithCancel(ctx)
	defer stopPipeline()
	go func() {
		_ = p.Run(runCtx)
	}()

	publish(ctx, t, broker, testSourceTopic, "poison", `{not json`)
	publish(ctx, t, broker, testSourceTopic, "toronto",
		`{"easting":"630084","northing":"4833438","zone":"17","hemi":"0"}`)

	consumer := sinkConsumer(broker)
	defer consumer.Close()

	got := readSink(ctx, t, consumer)
	assert.Equal(t, "toronto", got.Key)
	assert.InDelta(t, 43.64256178374388, got.Record["lat"], 1e-9)
}
