package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for structural errors. An empty API key
// passes validation: the client operates in degraded mode and the server
// rejects calls with an authentication failure.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if cfg.Retry.MaxDelay > 0 && cfg.Retry.MaxDelay < cfg.Retry.InitialDelay {
		return fmt.Errorf("retry.max_delay (%s) must not be below retry.initial_delay (%s)",
			cfg.Retry.MaxDelay, cfg.Retry.InitialDelay)
	}

	if cfg.Rate.RequestsPerSecond > 0 && cfg.Rate.Burst < 1 {
		return fmt.Errorf("rate.burst must be at least 1 when rate limiting is enabled")
	}

	return nil
}
