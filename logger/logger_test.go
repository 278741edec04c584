package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, level string, emit func(l Logger)) []map[string]any {
	t.Helper()

	var buf bytes.Buffer
	emit(NewWithOutput(level, false, &buf))

	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestZeroLoggerEmitsStructuredFields(t *testing.T) {
	entries := captureLog(t, "debug", func(l Logger) {
		l.Info().
			Str("method", "GET").
			Int("status", 200).
			Int64("attempts", 2).
			Dur("elapsed", 1500*time.Millisecond).
			Msg("REST client response")
	})

	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "REST client response", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(2), entry["attempts"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestZeroLoggerLevels(t *testing.T) {
	t.Run("debug suppressed at info level", func(t *testing.T) {
		entries := captureLog(t, "info", func(l Logger) {
			l.Debug().Msg("hidden")
			l.Warn().Msg("visible")
		})

		require.Len(t, entries, 1)
		assert.Equal(t, "visible", entries[0]["message"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		entries := captureLog(t, "not-a-level", func(l Logger) {
			l.Debug().Msg("hidden")
			l.Info().Msg("visible")
		})

		require.Len(t, entries, 1)
		assert.Equal(t, "visible", entries[0]["message"])
	})
}

func TestZeroLoggerErrField(t *testing.T) {
	entries := captureLog(t, "info", func(l Logger) {
		l.Error().Err(errors.New("connection refused")).Msg("request failed")
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "connection refused", entries[0]["error"])
	assert.Equal(t, "error", entries[0]["level"])
}

func TestSensitiveFieldMasking(t *testing.T) {
	t.Run("Str masks credential fields", func(t *testing.T) {
		entries := captureLog(t, "info", func(l Logger) {
			l.Info().
				Str("api_key", "super-secret-value").
				Str("url", "https://api.example.com").
				Msg("configured")
		})

		require.Len(t, entries, 1)
		assert.Equal(t, DefaultMaskValue, entries[0]["api_key"])
		assert.Equal(t, "https://api.example.com", entries[0]["url"])
	})

	t.Run("WithFields masks credential fields", func(t *testing.T) {
		entries := captureLog(t, "info", func(l Logger) {
			l.WithFields(map[string]any{
				"authorization": "Bearer abc",
				"service":       "reservations",
			}).Info().Msg("ready")
		})

		require.Len(t, entries, 1)
		assert.Equal(t, DefaultMaskValue, entries[0]["authorization"])
		assert.Equal(t, "reservations", entries[0]["service"])
	})
}

func TestSensitiveDataFilter(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)

	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"api_key", "abc123", DefaultMaskValue},
		{"X-Api-Key", "abc123", DefaultMaskValue},
		{"password", "hunter2", DefaultMaskValue},
		{"access_token", "tok", DefaultMaskValue},
		{"method", "GET", "GET"},
		{"path", "/reservations", "/reservations"},
		{"api_key", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.FilterString(tt.key, tt.value))
		})
	}
}

func TestFilterCustomConfig(t *testing.T) {
	filter := NewSensitiveDataFilter(&FilterConfig{
		SensitiveFields: []string{"pin"},
		MaskValue:       "[redacted]",
	})

	assert.Equal(t, "[redacted]", filter.FilterString("pin", "0000"))
	assert.Equal(t, "abc", filter.FilterString("api_key", "abc")) // not in custom list
}
