// Package echo provides a development engine that echoes the source text back.
// It implements the domain.Engine interface without making external API calls,
// providing deterministic responses for testing and development purposes.
package echo

import (
	"context"
	"unicode"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
)

// Descriptor identifies the echo engine.
//
//nolint:gochecknoglobals // immutable engine identity
var Descriptor = domain.Descriptor{
	Name:              "echo",
	Version:           "1",
	SupportsDetection: true,
	SupportsAlignment: true,
}

// Engine implements the domain.Engine interface for echo testing.
type Engine struct {
	detected string
	pairs    domain.LanguagePairs
}

// NewEngine creates a new echo engine.
// No credentials are required as this engine operates entirely in-memory.
func NewEngine(config Config) (*Engine, error) {
	if !config.Enabled {
		return nil, domain.NewProviderError(Descriptor.Name, domain.NotConfigured,
			"echo engine is disabled", nil)
	}

	return &Engine{
		detected: config.DetectedLanguage,
		pairs:    domain.AllToAll(config.Languages),
	}, nil
}

// Descriptor returns the engine identity.
func (e *Engine) Descriptor() domain.Descriptor {
	return Descriptor
}

// SupportedPairs returns the configured language pairs.
func (e *Engine) SupportedPairs() domain.LanguagePairs {
	return e.pairs
}

// Translate returns the source text unchanged.
func (e *Engine) Translate(ctx context.Context, req *domain.EngineRequest) (*domain.TranslationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewProviderError(Descriptor.Name, domain.APIError, "request cancelled", err)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request", observability.Int("length", len(req.SourceText)))

	result := &domain.TranslationResult{
		Engine:         Descriptor.Name,
		EngineVersion:  Descriptor.Version,
		FromLanguage:   req.FromLanguage,
		ToLanguage:     req.ToLanguage,
		SourceText:     req.SourceText,
		TranslatedText: req.SourceText,
	}

	if req.FromLanguage == "" {
		if e.detected == "" {
			return nil, domain.NewProviderError(Descriptor.Name, domain.DetectionFailed,
				"no detected language configured", nil)
		}
		confidence := 1.0
		result.FromLanguage = e.detected
		result.DetectedLanguageConfidence = &confidence
	}

	if req.WithAlignment {
		result.Alignment = wordAlignment(req.SourceText)
	}

	return result, nil
}

// wordAlignment aligns every word with itself using inclusive rune offsets.
func wordAlignment(text string) []domain.AlignmentSection {
	runes := []rune(text)
	sections := make([]domain.AlignmentSection, 0)

	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			span := domain.TextSpan{Start: start, End: i - 1, Text: string(runes[start:i])}
			sections = append(sections, domain.AlignmentSection{Src: span, Dest: span})
			start = -1
		}
	}

	return sections
}
