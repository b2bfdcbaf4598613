// Package gemini provides a translation engine backed by the Gemini API.
package gemini

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
	"github.com/davidbz/polyglot/internal/provider/prompt"
)

const temperature float32 = 0.2

// Descriptor identifies the Gemini engine.
//
//nolint:gochecknoglobals // immutable engine identity
var Descriptor = domain.Descriptor{
	Name:              "gemini",
	Version:           "v1beta",
	SupportsDetection: true,
	SupportsAlignment: false,
}

// Engine implements the domain.Engine interface for Gemini.
type Engine struct {
	client *genai.Client
	model  string
	pairs  domain.LanguagePairs
}

// NewEngine creates a new Gemini engine and checks that the configured model exists.
func NewEngine(ctx context.Context, config Config) (*Engine, error) {
	if config.APIKey == "" {
		return nil, domain.NewProviderError(Descriptor.Name, domain.NotConfigured,
			"Gemini API key is required", nil)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, domain.NewProviderError(Descriptor.Name, domain.NotConfigured,
			"failed to create Gemini client", err)
	}

	languages := config.Languages
	if len(languages) == 0 {
		languages = prompt.DefaultLanguages
	}

	e := &Engine{
		client: client,
		model:  config.Model,
		pairs:  domain.AllToAll(languages),
	}

	if _, err = client.Models.Get(ctx, e.model, nil); err != nil {
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
	logger.Debug("calling Gemini API", observability.String("model", e.model))

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt.User(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System(req), genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		logger.Error("Gemini API call failed", observability.Error(err))
		return nil, domain.NewProviderError(Descriptor.Name, domain.APIError, "generate content failed", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, domain.NewProviderError(Descriptor.Name, domain.TranslationFailed, "empty response", nil)
	}

	return prompt.Parse(Descriptor, req, text)
}
