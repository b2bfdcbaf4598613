package main

import (
	"context"
	"io"
	"log"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/polyglot/internal/cli"
	"github.com/davidbz/polyglot/internal/config"
	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
	"github.com/davidbz/polyglot/internal/preferences"
	"github.com/davidbz/polyglot/internal/provider/catalog"
	"github.com/davidbz/polyglot/internal/provider/registry"
	"github.com/davidbz/polyglot/internal/routing"
	"github.com/davidbz/polyglot/internal/store/postgres"
	redisstore "github.com/davidbz/polyglot/internal/store/redis"
)

func main() {
	container := buildContainer()

	var execErr error
	err := container.Invoke(func(
		logger *zap.Logger,
		controller *routing.Controller,
		resources *lifecycle,
		deps cli.Dependencies,
	) {
		defer func() { _ = logger.Sync() }()
		defer resources.Close()

		ctx := context.Background()
		controller.InitializeProviders(ctx)

		execErr = cli.NewRootCommand(deps).ExecuteContext(ctx)
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	if execErr != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}

// lifecycle closes the resources opened while resolving the container.
type lifecycle struct {
	closers []io.Closer
}

func newLifecycle() *lifecycle {
	return &lifecycle{}
}

func (l *lifecycle) track(closer io.Closer) {
	l.closers = append(l.closers, closer)
}

// Close closes tracked resources in reverse order.
func (l *lifecycle) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i].Close(); err != nil {
			log.Printf("Failed to close resource: %v", err)
		}
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(func(cfg *config.AppConfig) (*zap.Logger, error) {
		return observability.InitLogger(cfg.LogLevel)
	}); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(observability.NewEventBus); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Engines
	if err := container.Provide(catalog.NewBuiltin); err != nil {
		log.Fatalf("Failed to provide engine catalog: %v", err)
	}
	if err := container.Provide(registry.NewRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}
	if err := container.Provide(func(
		cfg *config.PreferencesConfig,
		engines *catalog.Catalog,
	) (*preferences.Preferences, error) {
		return preferences.Load(cfg.Path, engines.Names())
	}); err != nil {
		log.Fatalf("Failed to provide language preferences: %v", err)
	}
	if err := container.Provide(routing.NewController); err != nil {
		log.Fatalf("Failed to provide controller: %v", err)
	}

	if err := container.Provide(newLifecycle); err != nil {
		log.Fatalf("Failed to provide lifecycle: %v", err)
	}

	// Translation store, nil when disabled
	if err := container.Provide(func(
		storeCfg *config.StoreConfig,
		redisCfg *redisstore.Config,
		postgresCfg *postgres.Config,
		resources *lifecycle,
	) (domain.TranslationStore, error) {
		ctx := context.Background()

		switch storeCfg.Backend {
		case config.StoreRedis:
			store, err := redisstore.NewStore(ctx, *redisCfg)
			if err != nil {
				return nil, err
			}
			resources.track(store)
			return store, nil
		case config.StorePostgres:
			store, err := postgres.NewStore(ctx, *postgresCfg)
			if err != nil {
				return nil, err
			}
			resources.track(store)
			return store, nil
		default:
			return nil, nil
		}
	}); err != nil {
		log.Fatalf("Failed to provide translation store: %v", err)
	}

	// Domain Services
	if err := container.Provide(func(
		controller *routing.Controller,
		store domain.TranslationStore,
		events *observability.EventBus,
		storeCfg *config.StoreConfig,
	) *domain.GatewayService {
		return domain.NewGatewayService(controller, store, events, domain.GatewayOptions{
			SaveTimeout: storeCfg.SaveTimeout,
		})
	}); err != nil {
		log.Fatalf("Failed to provide gateway service: %v", err)
	}

	// Resolved on demand so only translating commands open the store
	if err := container.Provide(func() cli.GatewayFactory {
		return func() (*domain.GatewayService, error) {
			var gateway *domain.GatewayService
			err := container.Invoke(func(g *domain.GatewayService) {
				gateway = g
			})
			return gateway, err
		}
	}); err != nil {
		log.Fatalf("Failed to provide gateway factory: %v", err)
	}

	return container
}
