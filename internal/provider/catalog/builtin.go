package catalog

import (
	"context"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/provider/breaker"
	"github.com/davidbz/polyglot/internal/provider/echo"
	"github.com/davidbz/polyglot/internal/provider/gemini"
	"github.com/davidbz/polyglot/internal/provider/ollama"
	"github.com/davidbz/polyglot/internal/provider/openai"
)

// NewBuiltin creates the production catalog (DI constructor).
// Registration order: openai, gemini, ollama, echo.
func NewBuiltin(
	openaiConfig *openai.Config,
	geminiConfig *gemini.Config,
	ollamaConfig *ollama.Config,
	echoConfig *echo.Config,
	breakerConfig *breaker.Config,
) (*Catalog, error) {
	guard := func(engine domain.Engine, err error) (domain.Engine, error) {
		if err != nil {
			return nil, err
		}
		return breaker.Wrap(engine, *breakerConfig), nil
	}

	return New(
		Entry{
			Descriptor: openai.Descriptor,
			New: func(ctx context.Context) (domain.Engine, error) {
				return guard(openai.NewEngine(ctx, *openaiConfig))
			},
		},
		Entry{
			Descriptor: gemini.Descriptor,
			New: func(ctx context.Context) (domain.Engine, error) {
				return guard(gemini.NewEngine(ctx, *geminiConfig))
			},
		},
		Entry{
			Descriptor: ollama.Descriptor,
			New: func(ctx context.Context) (domain.Engine, error) {
				return guard(ollama.NewEngine(ctx, *ollamaConfig))
			},
		},
		Entry{
			Descriptor: echo.Descriptor,
			New: func(_ context.Context) (domain.Engine, error) {
				return echo.NewEngine(*echoConfig)
			},
		},
	)
}
