package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/polyglot/internal/provider/breaker"
	"github.com/davidbz/polyglot/internal/provider/echo"
	"github.com/davidbz/polyglot/internal/provider/gemini"
	"github.com/davidbz/polyglot/internal/provider/ollama"
	"github.com/davidbz/polyglot/internal/provider/openai"
	"github.com/davidbz/polyglot/internal/store/postgres"
	redisstore "github.com/davidbz/polyglot/internal/store/redis"
)

// Store backends.
const (
	StoreNone     = "none"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config represents the gateway configuration.
type Config struct {
	App         AppConfig
	Preferences PreferencesConfig
	Store       StoreConfig
	Redis       redisstore.Config
	Postgres    postgres.Config
	Breaker     breaker.Config
	OpenAI      openai.Config
	Gemini      gemini.Config
	Ollama      ollama.Config
	Echo        echo.Config
}

// AppConfig contains process-wide settings.
type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// PreferencesConfig locates the language preference file.
type PreferencesConfig struct {
	Path string `env:"LANGUAGE_PREFERENCES_PATH" envDefault:"language_preferences.yaml"`
}

// StoreConfig selects the translation store.
type StoreConfig struct {
	Backend     string        `env:"STORE_BACKEND"      envDefault:"none"`
	SaveTimeout time.Duration `env:"STORE_SAVE_TIMEOUT" envDefault:"5s"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*AppConfig
	*PreferencesConfig
	*StoreConfig
	Redis    *redisstore.Config
	Postgres *postgres.Config
	Breaker  *breaker.Config
	OpenAI   *openai.Config
	Gemini   *gemini.Config
	Ollama   *ollama.Config
	Echo     *echo.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	switch cfg.Store.Backend {
	case StoreNone, StoreRedis, StorePostgres:
	default:
		panic(fmt.Sprintf("unsupported STORE_BACKEND %q", cfg.Store.Backend))
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		AppConfig:         &cfg.App,
		PreferencesConfig: &cfg.Preferences,
		StoreConfig:       &cfg.Store,
		Redis:             &cfg.Redis,
		Postgres:          &cfg.Postgres,
		Breaker:           &cfg.Breaker,
		OpenAI:            &cfg.OpenAI,
		Gemini:            &cfg.Gemini,
		Ollama:            &cfg.Ollama,
		Echo:              &cfg.Echo,
	}
}
