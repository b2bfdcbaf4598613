// Package ollama provides a translation engine for OpenAI-compatible local model servers.
package ollama

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
	"github.com/davidbz/polyglot/internal/provider/prompt"
)

const temperature float32 = 0.2

// Descriptor identifies the Ollama engine.
//
//nolint:gochecknoglobals // immutable engine identity
var Descriptor = domain.Descriptor{
	Name:              "ollama",
	Version:           "v1",
	SupportsDetection: false,
	SupportsAlignment: false,
}

// Engine implements the domain.Engine interface for an OpenAI-compatible server.
type Engine struct {
	client *openai.Client
	model  string
	pairs  domain.LanguagePairs
}

// NewEngine creates a new engine and checks that the server serves the configured model.
func NewEngine(ctx context.Context, config Config) (*Engine, error) {
	if config.BaseURL == "" {
		return nil, domain.NewProviderError(Descriptor.Name, domain.NotConfigured,
			"Ollama base URL is required", nil)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	languages := config.Languages
	if len(languages) == 0 {
		languages = prompt.DefaultLanguages
	}

	e := &Engine{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		pairs:  domain.AllToAll(languages),
	}

	if err := e.probe(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) probe(ctx context.Context) error {
	models, err := e.client.ListModels(ctx)
	if err != nil {
		return domain.NewProviderError(Descriptor.Name, domain.APIError, "failed to list models", err)
	}

	for _, model := range models.Models {
		if model.ID == e.model {
			return nil
		}
	}

	return domain.NewProviderError(Descriptor.Name, domain.APIError,
		fmt.Sprintf("model %s is not served", e.model), nil)
}

// Descriptor returns the engine identity.
func (e *Engine) Descriptor() domain.Descriptor {
	return Descriptor
}

// SupportedPairs returns the language pairs the engine translates.
func (e *Engine) SupportedPairs() domain.LanguagePairs {
	return e.pairs
}

// Translate asks the model for a JSON translation.
func (e *Engine) Translate(ctx context.Context, req *domain.EngineRequest) (*domain.TranslationResult, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling Ollama API", observability.String("model", e.model))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System(req)},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User(req)},
		},
		Temperature: temperature,
	})
	if err != nil {
		logger.Error("Ollama API call failed", observability.Error(err))
		return nil, domain.NewProviderError(Descriptor.Name, domain.APIError, "chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewProviderError(Descriptor.Name, domain.TranslationFailed, "no choices returned", nil)
	}

	return prompt.Parse(Descriptor, req, resp.Choices[0].Message.Content)
}
