// Package breaker wraps translation engines in a circuit breaker so a failing
// upstream is skipped quickly by the fallback loop.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
)

// Config contains circuit breaker settings.
type Config struct {
	Enabled     bool          `env:"BREAKER_ENABLED"      envDefault:"true"`
	MaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
	OpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// Engine decorates a domain.Engine with a circuit breaker.
type Engine struct {
	next    domain.Engine
	breaker *gobreaker.CircuitBreaker
}

// Wrap returns the engine guarded by a circuit breaker, or the engine itself when disabled.
func Wrap(engine domain.Engine, config Config) domain.Engine {
	if !config.Enabled {
		return engine
	}

	name := engine.Descriptor().Name
	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	return &Engine{
		next: engine,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: config.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: isSuccessful,
			OnStateChange: func(name string, from, to gobreaker.State) {
				observability.FromContext(context.Background()).Warn("engine circuit breaker changed state",
					observability.String("engine", name),
					observability.String("from", from.String()),
					observability.String("to", to.String()))
			},
		}),
	}
}

// isSuccessful counts only upstream failures against the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return !domain.IsProviderErrorKind(err, domain.APIError)
}

// Descriptor returns the wrapped engine identity.
func (e *Engine) Descriptor() domain.Descriptor {
	return e.next.Descriptor()
}

// SupportedPairs returns the wrapped engine language pairs.
func (e *Engine) SupportedPairs() domain.LanguagePairs {
	return e.next.SupportedPairs()
}

// State returns the current breaker state.
func (e *Engine) State() gobreaker.State {
	return e.breaker.State()
}

// Translate calls the wrapped engine unless the breaker is open.
func (e *Engine) Translate(ctx context.Context, req *domain.EngineRequest) (*domain.TranslationResult, error) {
	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.next.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewProviderError(e.Descriptor().Name, domain.APIError, "circuit breaker is open", err)
		}
		return nil, err
	}

	translated, _ := result.(*domain.TranslationResult)
	return translated, nil
}
