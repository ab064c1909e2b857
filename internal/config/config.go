package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSMNBaseURL is the root of the SMN climatological normals tree.
const DefaultSMNBaseURL = "https://smn.conagua.gob.mx/tools/RESOURCES/Normales_Climatologicas"

// Config holds all service settings, populated from environment variables.
// Lookup thresholds are request parameters and never live here.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SMN report retrieval.
	SMNBaseURL       string
	SMNTimeout       time.Duration
	SMNCacheSize     int
	MinContentLength int

	// Optional result export to Kafka.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	smnTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SMN_TIMEOUT", "15s"))
	if err != nil || smnTimeout <= 0 {
		return nil, errors.New("invalid SMN_TIMEOUT")
	}

	cacheSize, err := parsePositiveInt("SMN_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	minContentLength, err := parsePositiveInt("SMN_MIN_CONTENT_LENGTH", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SMNBaseURL:       sharedcfg.EnvOrDefault("SMN_BASE_URL", DefaultSMNBaseURL),
		SMNTimeout:       smnTimeout,
		SMNCacheSize:     cacheSize,
		MinContentLength: minContentLength,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rainfall-rankings"),
	}

	if cfg.SMNBaseURL == "" {
		return nil, errors.New("SMN_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
