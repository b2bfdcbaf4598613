package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/davidbz/polyglot/internal/observability"
)

const defaultSaveTimeout = 5 * time.Second

// GatewayOptions tunes the gateway service.
type GatewayOptions struct {
	// SaveTimeout bounds each background store write.
	SaveTimeout time.Duration
}

// GatewayService resolves engines and runs the fallback loop.
type GatewayService struct {
	resolver EngineResolver
	store    TranslationStore
	events   EventPublisher
	validate *validator.Validate
	options  GatewayOptions
	pending  sync.WaitGroup
}

// NewGatewayService creates a new gateway service (DI constructor).
// A nil store disables the translation store.
func NewGatewayService(
	resolver EngineResolver,
	store TranslationStore,
	events EventPublisher,
	options GatewayOptions,
) *GatewayService {
	if options.SaveTimeout <= 0 {
		options.SaveTimeout = defaultSaveTimeout
	}

	return &GatewayService{
		resolver: resolver,
		store:    store,
		events:   events,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		options:  options,
	}
}

type attemptKind int

const (
	attemptSucceeded attemptKind = iota
	attemptProviderFailed
	attemptAborted
)

// attemptOutcome is the result of one pass through SELECTING and INVOKING.
type attemptOutcome struct {
	kind     attemptKind
	engine   string
	response *TranslationResponse
	err      error
}

func succeeded(result *TranslationResult, source string) attemptOutcome {
	return attemptOutcome{
		kind:     attemptSucceeded,
		engine:   result.Engine,
		response: &TranslationResponse{TranslationResult: *result, Source: source},
	}
}

func providerFailed(engine string, err error) attemptOutcome {
	return attemptOutcome{kind: attemptProviderFailed, engine: engine, err: err}
}

func aborted(err error) attemptOutcome {
	return attemptOutcome{kind: attemptAborted, err: err}
}

// Translate handles a translation request. When the request enables fallback, every
// engine that fails with a ProviderError is excluded and the best remaining engine
// is tried, until one succeeds or no viable engine is left.
func (g *GatewayService) Translate(ctx context.Context, req *TranslationRequest) (*TranslationResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if err := g.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid translation request: %w", err)
	}

	ctx = observability.StartTrace(ctx)
	ctx = observability.WithLanguagePair(ctx, req.FromLanguage, req.ToLanguage)
	logger := observability.FromContext(ctx)

	useName := req.PreferredEngine
	if useName == "" {
		useName = BestEngine
	}

	var exclude []string
	for {
		outcome := g.attempt(ctx, req, useName, exclude)

		switch outcome.kind {
		case attemptSucceeded:
			outcome.response.FailedEngines = exclude
			g.publish(ctx, observability.EventCompleted, map[string]interface{}{
				"engine":         outcome.engine,
				"source":         outcome.response.Source,
				"failed_engines": exclude,
			})
			return outcome.response, nil

		case attemptProviderFailed:
			g.publish(ctx, observability.EventAttemptFailed, map[string]interface{}{
				"engine": outcome.engine,
				"error":  outcome.err.Error(),
			})
			if !req.Fallback {
				return nil, outcome.err
			}

			exclude = append(exclude, outcome.engine)
			useName = BestEngine

			logger.Info("falling back to next best engine",
				observability.String("failed_engine", outcome.engine),
				observability.Strings("excluded", exclude),
				observability.Error(outcome.err))
			g.publish(ctx, observability.EventFallback, map[string]interface{}{
				"failed_engine": outcome.engine,
				"excluded":      exclude,
			})

		default:
			return nil, outcome.err
		}
	}
}

func (g *GatewayService) attempt(
	ctx context.Context,
	req *TranslationRequest,
	useName string,
	exclude []string,
) attemptOutcome {
	engine, err := g.resolver.ResolveNamed(ctx, useName, req.Query(exclude))
	if err != nil {
		if _, ok := IsProviderError(err); ok {
			return providerFailed(useName, err)
		}
		return aborted(err)
	}

	desc := engine.Descriptor()
	ctx = observability.WithEngine(ctx, desc.Name)

	if cached := g.lookup(ctx, req, desc.Name); cached != nil {
		g.publish(ctx, observability.EventStoreHit, map[string]interface{}{"engine": desc.Name})
		return succeeded(cached, SourceStore)
	}

	engineReq := &EngineRequest{
		SourceText:    req.SourceText,
		FromLanguage:  req.FromLanguage,
		ToLanguage:    req.ToLanguage,
		WithAlignment: req.WithAlignment,
	}

	if err = Preflight(engine, engineReq); err != nil {
		return providerFailed(desc.Name, err)
	}

	started := time.Now()
	result, err := engine.Translate(ctx, engineReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return aborted(fmt.Errorf("translation cancelled: %w", ctxErr))
		}
		if _, ok := IsProviderError(err); ok {
			return providerFailed(desc.Name, err)
		}
		return aborted(fmt.Errorf("engine %s failed unexpectedly: %w", desc.Name, err))
	}
	if result == nil {
		return providerFailed(desc.Name, NewProviderError(desc.Name, TranslationFailed, "engine returned no result", nil))
	}

	observability.FromContext(ctx).Debug("engine translated request",
		observability.Duration("elapsed", time.Since(started)))

	g.saveAsync(ctx, result, req.FromLanguage != "")

	return succeeded(result, SourceEngine)
}

func (g *GatewayService) lookup(ctx context.Context, req *TranslationRequest, engine string) *TranslationResult {
	if g.store == nil {
		return nil
	}

	cached, err := g.store.Lookup(ctx, Fingerprint{
		ToLanguage:    req.ToLanguage,
		SourceText:    req.SourceText,
		FromLanguage:  req.FromLanguage,
		WithAlignment: req.WithAlignment,
		Engine:        engine,
	})
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			observability.FromContext(ctx).Warn("store lookup failed, continuing without store",
				observability.Error(err))
		}
		return nil
	}

	return cached
}

func (g *GatewayService) saveAsync(ctx context.Context, result *TranslationResult, fromWasSpecified bool) {
	if g.store == nil {
		return
	}

	saved := *result
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.options.SaveTimeout)
		defer cancel()

		if err := g.store.Save(saveCtx, &saved, fromWasSpecified); err != nil {
			observability.FromContext(saveCtx).Warn("failed to save translation",
				observability.Error(err))
		}
	}()
}

// Wait blocks until every background store write has finished.
func (g *GatewayService) Wait() {
	g.pending.Wait()
}

func (g *GatewayService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if g.events == nil {
		return
	}
	g.events.Publish(ctx, eventType, data)
}
