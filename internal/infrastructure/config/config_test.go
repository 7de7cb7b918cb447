package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Tables.Requests != "partner_requests" || cfg.Tables.PhotoSets != "vehicle_photo_sets" {
		t.Fatalf("unexpected tables: %+v", cfg.Tables)
	}
	if cfg.Coordinator.AcceptMaxAttempts != 4 || cfg.Coordinator.SweepPasses != 2 {
		t.Fatalf("unexpected coordinator bounds: %+v", cfg.Coordinator)
	}
	if cfg.KafkaEnabled() {
		t.Fatalf("kafka must be disabled without brokers")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CASCADE_SWEEP_PASSES", "3")
	t.Setenv("DYNAMODB_ENDPOINT", "http://dynamodb:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 || cfg.Coordinator.SweepPasses != 3 || cfg.AWS.DynamoDBEndpoint != "http://dynamodb:8000" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.KafkaEnabled() || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("expected two brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                               "0",
		"ACCEPT_MAX_ATTEMPTS":                "0",
		"CASCADE_SWEEP_PASSES":               "0",
		"TRACING_SAMPLE_RATIO":               "1.5",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "collector:4318",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("PORT", "http")
		if _, err := Load(); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracing.Enabled() || cfg.Tracing.ServiceName != "partner-repairs" || cfg.Tracing.SampleRatio != 1 {
		t.Fatalf("unexpected tracing defaults: %+v", cfg.Tracing)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://otel-collector:4318/v1/traces")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Tracing.Enabled() || cfg.Tracing.SampleRatio != 0.25 {
		t.Fatalf("tracing overrides not applied: %+v", cfg.Tracing)
	}
}
