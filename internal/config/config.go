package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
// Immutable after Load: record processing never reads ambient state.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BufferResponse assembles the full transform response in memory before
	// sending, trading streaming for trustworthy status codes on mid-stream
	// failures.
	BufferResponse bool

	// Fields names the record fields the transform reads and writes.
	Fields domain.FieldConfig

	// Kafka pipeline mode (optional).
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. Validation errors name the offending variable.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	batchSize, err := envBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := envDuration("BATCH_FLUSH_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BufferResponse:  envBool("BUFFER_RESPONSE"),

		Fields: domain.FieldConfig{
			Easting:           envOrDefault("EASTING_PROPERTY", "easting"),
			Northing:          envOrDefault("NORTHING_PROPERTY", "northing"),
			Zone:              envOrDefault("ZONE_PROPERTY", "zone"),
			ZoneDefault:       envOrDefault("ZONE_DEFAULT", "32"),
			Hemisphere:        envOrDefault("HEMI_PROPERTY", "hemi"),
			HemisphereDefault: envOrDefault("HEMI_DEFAULT", "0"),
			NorthernValue:     envOrDefault("HEMI_NORTHERN_VALUE", "0"),
			Latitude:          envOrDefault("LATITUDE_PROPERTY", "lat"),
			Longitude:         envOrDefault("LONGITUDE_PROPERTY", "long"),
			IncludeLatLon:     envBool("INCLUDE_LAT_LONG"),
			LatLon:            envOrDefault("LAT_LONG_PROPERTY", "lat_long"),
		},

		KafkaEnabled:       envBool("KAFKA_ENABLED"),
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "utm-records"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "transformed-records"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "utm-transform"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if err := validateFields(cfg.Fields); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// validateFields rejects empty field names; an empty name could never match
// a record field and would silently skip every record.
func validateFields(fields domain.FieldConfig) error {
	named := map[string]string{
		"EASTING_PROPERTY":   fields.Easting,
		"NORTHING_PROPERTY":  fields.Northing,
		"ZONE_PROPERTY":      fields.Zone,
		"HEMI_PROPERTY":      fields.Hemisphere,
		"LATITUDE_PROPERTY":  fields.Latitude,
		"LONGITUDE_PROPERTY": fields.Longitude,
		"LAT_LONG_PROPERTY":  fields.LatLon,
	}
	for env, value := range named {
		if value == "" {
			return fmt.Errorf("%s must not be empty", env)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// envBool matches the original service's semantics: the literal "true"
// (case-insensitive, trimmed) enables, anything else disables.
func envBool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envBatchSize() (int, error) {
	s := os.Getenv("BATCH_SIZE")
	if s == "" {
		return 50, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("invalid BATCH_SIZE: %q (want 1-1000)", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
