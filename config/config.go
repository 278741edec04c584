// Package config loads SDK configuration from defaults, an optional YAML
// file, and environment variables, in increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by Load.
// A double underscore separates nesting levels, a single underscore stays
// part of the key: DINEHALL_API__BASE_URL maps to api.base_url.
const EnvPrefix = "DINEHALL_"

// Load builds the configuration with priority:
// 1. Environment variables (highest)
// 2. YAML configuration file (optional)
// 3. Default values (lowest)
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit YAML file path. The file is optional;
// a missing file is not an error.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(envprovider.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey maps DINEHALL_API__BASE_URL to api.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func defaults() map[string]any {
	return map[string]any{
		"api.base_url":   "",
		"api.key":        "",
		"api.key_header": "X-Api-Key",
		"api.timeout":    "30s",

		"retry.max_attempts":  3,
		"retry.initial_delay": "1s",
		"retry.max_delay":     "30s",

		"rate.requests_per_second": 0,
		"rate.burst":               0,

		"breaker.enabled":           false,
		"breaker.max_requests":      3,
		"breaker.interval":          "30s",
		"breaker.timeout":           "60s",
		"breaker.failure_threshold": 0.6,
		"breaker.min_requests":      5,

		"log.level":             "info",
		"log.pretty":            false,
		"log.payloads":          false,
		"log.max_payload_bytes": 2048,
	}
}
