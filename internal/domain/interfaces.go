package domain

import "context"

// Engine represents any translation engine.
type Engine interface {
	// Descriptor returns the engine identity and capabilities.
	Descriptor() Descriptor

	// SupportedPairs returns the language pairs the engine can translate.
	SupportedPairs() LanguagePairs

	// Translate translates the request text.
	Translate(ctx context.Context, req *EngineRequest) (*TranslationResult, error)
}

// ProviderRegistry manages the engines that are configured and reachable.
type ProviderRegistry interface {
	// Register adds an engine to the registry.
	Register(ctx context.Context, engine Engine) error

	// Get retrieves an engine by name.
	Get(ctx context.Context, name string) (Engine, error)

	// List returns the registered engine names in registration order.
	List(ctx context.Context) ([]string, error)
}

// EngineResolver picks the engine that will serve a request.
type EngineResolver interface {
	// ResolveNamed returns the named engine, or the best engine when name is "best".
	ResolveNamed(ctx context.Context, name string, query ResolutionQuery) (Engine, error)
}

// TranslationStore keeps previously computed translations.
type TranslationStore interface {
	// Lookup returns a stored translation or ErrCacheMiss.
	Lookup(ctx context.Context, fp Fingerprint) (*TranslationResult, error)

	// Save stores a translation result.
	Save(ctx context.Context, result *TranslationResult, fromWasSpecified bool) error
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
