package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/polyglot/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, "warn", cfg.App.LogLevel)
		require.Equal(t, "language_preferences.yaml", cfg.Preferences.Path)
		require.Equal(t, config.StoreNone, cfg.Store.Backend)
		require.Equal(t, 5*time.Second, cfg.Store.SaveTimeout)
		require.Equal(t, "polyglot:", cfg.Redis.KeyPrefix)
		require.Equal(t, "translation", cfg.Postgres.Table)
		require.True(t, cfg.Breaker.Enabled)
		require.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, 60, cfg.OpenAI.Timeout)
		require.Equal(t, 3, cfg.OpenAI.MaxRetries)
		require.Empty(t, cfg.OpenAI.APIKey)
		require.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
		require.Empty(t, cfg.Ollama.BaseURL)
		require.False(t, cfg.Echo.Enabled)
		require.Equal(t, []string{"en", "es", "fr", "de", "it", "pt", "ja", "ko", "zh"}, cfg.Echo.Languages)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("POSTGRES_DSN", "postgres://localhost/polyglot?sslmode=disable")
		t.Setenv("BREAKER_OPEN_TIMEOUT", "1m")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_LANGUAGES", "en,es")
		t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434/v1")
		t.Setenv("ECHO_ENABLED", "true")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, "debug", cfg.App.LogLevel)
		require.Equal(t, config.StorePostgres, cfg.Store.Backend)
		require.Equal(t, "postgres://localhost/polyglot?sslmode=disable", cfg.Postgres.DSN)
		require.Equal(t, time.Minute, cfg.Breaker.OpenTimeout)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, []string{"en", "es"}, cfg.OpenAI.Languages)
		require.Equal(t, "http://localhost:11434/v1", cfg.Ollama.BaseURL)
		require.True(t, cfg.Echo.Enabled)
	})

	t.Run("should panic on an unknown store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memcached")

		require.Panics(t, func() { config.Load() })
	})

	t.Run("should expose sub-configs for injection", func(t *testing.T) {
		os.Clearenv()
		cfg := config.Load()

		deps := config.ParseDependenciesConfig(cfg)

		require.Same(t, &cfg.OpenAI, deps.OpenAI)
		require.Same(t, &cfg.Store, deps.StoreConfig)
	})
}
