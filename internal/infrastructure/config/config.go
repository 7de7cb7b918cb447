package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// AWS holds the client settings shared by DynamoDB and S3.
//
// Local DynamoDB and localstack do not validate credentials, but the SDK
// requires them, so both default to "local".
type AWS struct {
	Region           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"AWS_ACCESS_KEY_ID" envDefault:"local"`
	SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"local"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
}

type Tables struct {
	Requests  string `env:"REQUESTS_TABLE" envDefault:"partner_requests"`
	Vehicles  string `env:"VEHICLES_TABLE" envDefault:"vehicles"`
	PhotoSets string `env:"PHOTO_SETS_TABLE" envDefault:"vehicle_photo_sets"`
}

type Photos struct {
	// Bucket empty disables photo copying; requests keep their references.
	Bucket string `env:"PHOTOS_BUCKET"`
}

type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TRANSITIONS_TOPIC" envDefault:"partner-request-transitions"`
}

type Coordinator struct {
	AcceptMaxAttempts int `env:"ACCEPT_MAX_ATTEMPTS" envDefault:"4"`
	SweepPasses       int `env:"CASCADE_SWEEP_PASSES" envDefault:"2"`
}

// Tracing exports spans over OTLP/HTTP when Endpoint is set.
type Tracing struct {
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"partner-repairs"`
	SampleRatio float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1"`
}

func (t Tracing) Enabled() bool { return strings.TrimSpace(t.Endpoint) != "" }

type Config struct {
	Port        int  `env:"PORT" envDefault:"8080"`
	UseMemory   bool `env:"USE_MEMORY_STORE" envDefault:"false"`
	AWS         AWS
	Tables      Tables
	Photos      Photos
	Kafka       Kafka
	Coordinator Coordinator
	Tracing     Tracing
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.Coordinator.AcceptMaxAttempts < 1 {
		return fmt.Errorf("ACCEPT_MAX_ATTEMPTS must be >= 1")
	}
	if c.Coordinator.SweepPasses < 1 {
		return fmt.Errorf("CASCADE_SWEEP_PASSES must be >= 1")
	}
	if c.Tracing.Enabled() {
		u, err := url.Parse(c.Tracing.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid OTEL_EXPORTER_OTLP_TRACES_ENDPOINT %q", c.Tracing.Endpoint)
		}
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	return nil
}

// KafkaEnabled reports whether at least one non-blank broker is configured.
func (c Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
