package routing

import (
	"context"
	"fmt"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
	"github.com/davidbz/polyglot/internal/preferences"
	"github.com/davidbz/polyglot/internal/provider/catalog"
	"github.com/davidbz/polyglot/internal/provider/registry"
)

// Controller owns the available engines and resolves which one serves a request.
type Controller struct {
	catalog     *catalog.Catalog
	available   *registry.Registry
	preferences *preferences.Preferences
}

// NewController creates a new controller (DI constructor).
func NewController(
	catalog *catalog.Catalog,
	available *registry.Registry,
	preferences *preferences.Preferences,
) *Controller {
	return &Controller{
		catalog:     catalog,
		available:   available,
		preferences: preferences,
	}
}

// InitializeProviders constructs every catalog engine that is not available yet.
// Engines that fail to construct are logged and skipped.
func (c *Controller) InitializeProviders(ctx context.Context) []string {
	logger := observability.FromContext(ctx)

	for _, name := range c.catalog.Names() {
		if c.available.Has(name) {
			continue
		}

		engine, err := c.catalog.Construct(ctx, name)
		if err != nil {
			logger.Info("could not initialize engine",
				observability.String("engine", name),
				observability.Error(err))
			continue
		}

		if err = c.available.Register(ctx, engine); err != nil {
			logger.Warn("failed to register engine",
				observability.String("engine", name),
				observability.Error(err))
		}
	}

	names, _ := c.available.List(ctx)
	logger.Info("initialized engines", observability.Strings("engines", names))

	return names
}

// ResolveBest returns the preferred available engine that meets every requirement of the query.
func (c *Controller) ResolveBest(ctx context.Context, query domain.ResolutionQuery) (domain.Engine, error) {
	candidates := make(map[string]domain.Engine)
	for name, engine := range c.available.Snapshot() {
		if query.Excludes(name) {
			continue
		}

		desc := engine.Descriptor()
		if query.NeedsDetection() && !desc.SupportsDetection {
			continue
		}
		if query.NeedsAlignment && !desc.SupportsAlignment {
			continue
		}
		if !engine.SupportedPairs().Supports(query.FromLanguage, query.ToLanguage) {
			continue
		}

		candidates[name] = engine
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoViableProvider
	}

	engine, err := BestProvider(candidates, query.FromLanguage, query.ToLanguage,
		c.preferences.Table, c.preferences.Default)
	if err != nil {
		return nil, err
	}

	observability.FromContext(ctx).Debug("resolved best engine",
		observability.String("engine", engine.Descriptor().Name),
		observability.Strings("excluded", query.Exclude))

	return engine, nil
}

// ResolveNamed returns the named engine. "best" delegates to ResolveBest. An engine that
// is registered but not yet available is constructed on demand and becomes available.
// A named engine is returned without capability filtering.
func (c *Controller) ResolveNamed(ctx context.Context, name string, query domain.ResolutionQuery) (domain.Engine, error) {
	if name == domain.BestEngine {
		return c.ResolveBest(ctx, query)
	}

	if engine, err := c.available.Get(ctx, name); err == nil {
		return engine, nil
	}

	engine, err := c.catalog.Construct(ctx, name)
	if err != nil {
		return nil, err
	}

	if err = c.available.Register(ctx, engine); err != nil {
		// Constructed concurrently by another request.
		registered, getErr := c.available.Get(ctx, name)
		if getErr != nil {
			return nil, fmt.Errorf("failed to register engine %s: %w", name, err)
		}
		return registered, nil
	}

	observability.FromContext(ctx).Info("constructed engine on demand",
		observability.String("engine", name))

	return engine, nil
}

// CombinedSupportedLanguages returns the union of the language pairs of every available engine.
func (c *Controller) CombinedSupportedLanguages() domain.LanguagePairs {
	combined := make(domain.LanguagePairs)
	for _, engine := range c.available.Snapshot() {
		for from, targets := range engine.SupportedPairs() {
			if combined[from] == nil {
				combined[from] = make(map[string]struct{}, len(targets))
			}
			for to := range targets {
				combined[from][to] = struct{}{}
			}
		}
	}
	return combined
}

// Ranked returns the given engines ordered by preference for the pair, best first,
// by repeatedly resolving the best engine and removing it.
func Ranked(names []string, from, to string, prefs *preferences.Preferences) []string {
	remaining := make(map[string]string, len(names))
	for _, name := range names {
		remaining[name] = name
	}

	ranked := make([]string, 0, len(names))
	for len(remaining) > 0 {
		best, err := BestProvider(remaining, from, to, prefs.Table, prefs.Default)
		if err != nil {
			break
		}
		ranked = append(ranked, best)
		delete(remaining, best)
	}

	return ranked
}
