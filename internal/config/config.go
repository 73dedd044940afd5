// Package config loads the process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config is the complete runtime configuration.
type Config struct {
	API     API
	Log     Log
	Minio   Minio
	Archive Archive
	Kafka   Kafka
}

type API struct {
	Endpoint  string        `env:"WIKIQUERY_ENDPOINT,default=https://en.wikipedia.org" validate:"required,url"`
	UserAgent string        `env:"WIKIQUERY_USER_AGENT,default=wikiquery/1.0 (https://www.mediawiki.org/wiki/API:Etiquette)" validate:"required"`
	Timeout   time.Duration `env:"WIKIQUERY_TIMEOUT,default=30s" validate:"gt=0"`
	RateLimit float64       `env:"WIKIQUERY_RATE_LIMIT,default=10" validate:"gte=0"`
	MaxRounds int           `env:"WIKIQUERY_MAX_PAGES,default=0" validate:"gte=0"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `env:"LOG_FORMAT,default=text" validate:"oneof=text json"`
}

type Minio struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL,default=false"`
}

type Archive struct {
	Bucket      string `env:"ARCHIVE_BUCKET,default=wikiquery"`
	DatabaseURL string `env:"DATABASE_URL"`
	Workers     int    `env:"CRAWL_WORKERS,default=8" validate:"gte=1"`
}

type Kafka struct {
	Broker  string `env:"KAFKA_BROKER"`
	Topic   string `env:"KAFKA_TOPIC"`
	GroupID string `env:"KAFKA_GROUP_ID"`
}

// Load reads .env if present, decodes the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, assuming environment variables are set directly.")
	}
	return FromEnv()
}

// FromEnv decodes and validates the current environment.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// RequireMinio reports which MinIO settings are missing.
func (c *Config) RequireMinio() error {
	if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
		return fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}
	return nil
}

// RequireKafka reports which Kafka settings are missing.
func (c *Config) RequireKafka() error {
	for name, v := range map[string]string{
		"KAFKA_BROKER":   c.Kafka.Broker,
		"KAFKA_TOPIC":    c.Kafka.Topic,
		"KAFKA_GROUP_ID": c.Kafka.GroupID,
	} {
		if v == "" {
			return fmt.Errorf("environment variable %s not set", name)
		}
	}
	return nil
}
