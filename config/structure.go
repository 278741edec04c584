package config

import "time"

// Config is the immutable SDK configuration, loaded once at process start and
// passed into client constructors.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Retry   RetryConfig   `koanf:"retry"`
	Rate    RateConfig    `koanf:"rate"`
	Breaker BreakerConfig `koanf:"breaker"`
	Log     LogConfig     `koanf:"log"`
}

// APIConfig describes the remote reservation API endpoint and credential.
type APIConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// Key is the API credential. It may be empty: calls still go out, the
	// server is expected to reject them with an authentication failure.
	Key       string        `koanf:"key"`
	KeyHeader string        `koanf:"key_header" validate:"required"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
}

// RetryConfig bounds the backoff policy applied to idempotent reads.
type RetryConfig struct {
	MaxAttempts  int           `koanf:"max_attempts" validate:"gte=1"`
	InitialDelay time.Duration `koanf:"initial_delay" validate:"gte=0"`
	MaxDelay     time.Duration `koanf:"max_delay" validate:"gte=0"`
}

// RateConfig is the client-side request rate limit. A zero RequestsPerSecond
// disables limiting.
type RateConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int     `koanf:"burst" validate:"gte=0"`
}

// BreakerConfig is the optional circuit breaker in front of the transport.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gte=0,lte=1"`
	MinRequests      uint32        `koanf:"min_requests"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
	// Payloads enables debug-level logging of request and response bodies.
	Payloads        bool `koanf:"payloads"`
	MaxPayloadBytes int  `koanf:"max_payload_bytes" validate:"gte=0"`
}
