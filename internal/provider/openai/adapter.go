// Package openai provides a translation engine backed by the OpenAI chat completion API
// using the official SDK. It implements the domain.Engine interface.
package openai

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
	"github.com/davidbz/polyglot/internal/provider/prompt"
)

const temperature = 0.2

// Descriptor identifies the OpenAI engine.
//
//nolint:gochecknoglobals // immutable engine identity
var Descriptor = domain.Descriptor{
	Name:              "openai",
	Version:           "v1",
	SupportsDetection: true,
	SupportsAlignment: false,
}

// Engine implements the domain.Engine interface for OpenAI.
type Engine struct {
	client openai.Client
	model  string
	pairs  domain.LanguagePairs
}

// NewEngine creates a new OpenAI engine and checks that the configured model is reachable.
func NewEngine(ctx context.Context, config Config) (*Engine, error) {
	if config.APIKey == "" {
		return nil, domain.NewProviderError(Descriptor.Name, domain.NotConfigured,
			"OpenAI API key is required", nil)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	languages := config.Languages
	if len(languages) == 0 {
		languages = prompt.DefaultLanguages
	}

	e := &Engine{
		client: openai.NewClient(opts...),
		model:  config.Model,
		pairs:  domain.AllToAll(languages),
	}

	if _, err := e.client.Models.Get(ctx, e.model); err != nil {
		return nil, domain.NewProviderError(Descriptor.Name, domain.APIError,
			"failed to retrieve model "+e.model, err)
	}

	return e, nil
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
	logger.Debug("calling OpenAI API", observability.String("model", e.model))

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System(req)),
			openai.UserMessage(prompt.User(req)),
		},
		Temperature:    openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return nil, domain.NewProviderError(Descriptor.Name, domain.APIError, "chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewProviderError(Descriptor.Name, domain.TranslationFailed, "no choices returned", nil)
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return prompt.Parse(Descriptor, req, resp.Choices[0].Message.Content)
}
