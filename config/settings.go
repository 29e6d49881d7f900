package config

import (
	"log/slog"
	"time"
)

// Logging controls the process-wide slog setup.
type Logging struct {
	JSON        bool       `env:"LOG_JSON"         envDefault:"false"`
	Level       slog.Level `env:"LOG_LEVEL"        envDefault:"INFO"`
	LegacyLevel slog.Level `env:"LEGACY_LOG_LEVEL" envDefault:"INFO"`
	// Output is either "stdout" or "stderr".
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// Telemetry controls OTLP trace export.
type Telemetry struct {
	Enabled        bool          `env:"OTEL_ENABLED"                       envDefault:"false"`
	ServiceName    string        `env:"OTEL_SERVICE_NAME"                  envDefault:"stateshaft"`
	ServiceVersion string        `env:"OTEL_SERVICE_VERSION"               envDefault:"1.0.0"`
	Environment    string        `env:"OTEL_ENVIRONMENT"                   envDefault:"local"`
	Endpoint       string        `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Timeout        time.Duration `env:"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT"  envDefault:"5s"`
}
