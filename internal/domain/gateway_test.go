package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/polyglot/internal/domain"
)

// mockEngine is a mock implementation of Engine for testing.
type mockEngine struct {
	desc          domain.Descriptor
	pairs         domain.LanguagePairs
	translateFunc func(ctx context.Context, req *domain.EngineRequest) (*domain.TranslationResult, error)
	calls         int
}

func newMockEngine(name string) *mockEngine {
	return &mockEngine{
		desc: domain.Descriptor{
			Name:              name,
			Version:           "1",
			SupportsDetection: true,
			SupportsAlignment: true,
		},
		pairs: domain.AllToAll([]string{"en", "es", "fr", "de"}),
	}
}

func (m *mockEngine) Descriptor() domain.Descriptor {
	return m.desc
}

func (m *mockEngine) SupportedPairs() domain.LanguagePairs {
	return m.pairs
}

func (m *mockEngine) Translate(ctx context.Context, req *domain.EngineRequest) (*domain.TranslationResult, error) {
	m.calls++
	if m.translateFunc != nil {
		return m.translateFunc(ctx, req)
	}
	return &domain.TranslationResult{
		Engine:         m.desc.Name,
		EngineVersion:  m.desc.Version,
		FromLanguage:   req.FromLanguage,
		ToLanguage:     req.ToLanguage,
		SourceText:     req.SourceText,
		TranslatedText: m.desc.Name + ":" + req.SourceText,
	}, nil
}

func failingWith(kind domain.ProviderErrorKind) func(context.Context, *domain.EngineRequest) (*domain.TranslationResult, error) {
	return func(_ context.Context, _ *domain.EngineRequest) (*domain.TranslationResult, error) {
		return nil, domain.NewProviderError("mock", kind, "boom", nil)
	}
}

// mockResolver picks the first non-excluded engine in order for "best".
type mockResolver struct {
	order      []string
	engines    map[string]*mockEngine
	namedErr   map[string]error
	queries    []domain.ResolutionQuery
	names      []string
	resolveErr error
}

func newMockResolver(engines ...*mockEngine) *mockResolver {
	r := &mockResolver{
		engines:  make(map[string]*mockEngine),
		namedErr: make(map[string]error),
	}
	for _, e := range engines {
		r.order = append(r.order, e.desc.Name)
		r.engines[e.desc.Name] = e
	}
	return r
}

func (r *mockResolver) ResolveNamed(_ context.Context, name string, query domain.ResolutionQuery) (domain.Engine, error) {
	r.names = append(r.names, name)
	r.queries = append(r.queries, query)

	if r.resolveErr != nil {
		return nil, r.resolveErr
	}

	if name != domain.BestEngine {
		if err, ok := r.namedErr[name]; ok {
			return nil, err
		}
		engine, ok := r.engines[name]
		if !ok {
			return nil, &domain.UnknownProviderError{Name: name, Known: r.order}
		}
		return engine, nil
	}

	for _, candidate := range r.order {
		if !query.Excludes(candidate) {
			return r.engines[candidate], nil
		}
	}
	return nil, domain.ErrNoViableProvider
}

// mockStore is a testify mock of TranslationStore.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.TranslationResult, error) {
	args := m.Called(ctx, fp)
	result, _ := args.Get(0).(*domain.TranslationResult)
	return result, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, result *domain.TranslationResult, fromWasSpecified bool) error {
	args := m.Called(ctx, result, fromWasSpecified)
	return args.Error(0)
}

// recordingPublisher collects published event types.
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ map[string]interface{}) {
	p.events = append(p.events, eventType)
}

func newRequest() *domain.TranslationRequest {
	return &domain.TranslationRequest{
		SourceText:   "hello",
		FromLanguage: "en",
		ToLanguage:   "es",
	}
}

func TestGatewayService_Translate(t *testing.T) {
	ctx := context.Background()

	t.Run("should translate with the best engine", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		resolver := newMockResolver(first, second)
		gateway := domain.NewGatewayService(resolver, nil, nil, domain.GatewayOptions{})

		resp, err := gateway.Translate(ctx, newRequest())

		require.NoError(t, err)
		require.Equal(t, "microsoft", resp.Engine)
		require.Equal(t, "microsoft:hello", resp.TranslatedText)
		require.Equal(t, domain.SourceEngine, resp.Source)
		require.Empty(t, resp.FailedEngines)
		require.Equal(t, []string{domain.BestEngine}, resolver.names)
		require.Zero(t, second.calls)
	})

	t.Run("should use the preferred engine when named", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		resolver := newMockResolver(first, second)
		gateway := domain.NewGatewayService(resolver, nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.PreferredEngine = "google"
		resp, err := gateway.Translate(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "google", resp.Engine)
		require.Equal(t, []string{"google"}, resolver.names)
	})

	t.Run("should surface provider error unchanged when fallback is off", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		engineErr := domain.NewProviderError("microsoft", domain.APIError, "quota exceeded", nil)
		first.translateFunc = func(_ context.Context, _ *domain.EngineRequest) (*domain.TranslationResult, error) {
			return nil, engineErr
		}
		gateway := domain.NewGatewayService(newMockResolver(first, second), nil, nil, domain.GatewayOptions{})

		resp, err := gateway.Translate(ctx, newRequest())

		require.Nil(t, resp)
		require.Same(t, engineErr, err)
		require.Equal(t, 1, first.calls)
		require.Zero(t, second.calls)
	})

	t.Run("should fall back to the next best engine", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		first.translateFunc = failingWith(domain.APIError)
		resolver := newMockResolver(first, second)
		events := &recordingPublisher{}
		gateway := domain.NewGatewayService(resolver, nil, events, domain.GatewayOptions{})

		req := newRequest()
		req.Fallback = true
		resp, err := gateway.Translate(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "google", resp.Engine)
		require.Equal(t, []string{"microsoft"}, resp.FailedEngines)
		require.Equal(t, []string{"microsoft"}, resolver.queries[1].Exclude)
		require.Equal(t, []string{
			"translation.attempt_failed",
			"translation.fallback",
			"translation.completed",
		}, events.events)
	})

	t.Run("should end with no viable provider when every engine fails", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		first.translateFunc = failingWith(domain.APIError)
		second.translateFunc = failingWith(domain.TranslationFailed)
		resolver := newMockResolver(first, second)
		gateway := domain.NewGatewayService(resolver, nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.Fallback = true
		_, err := gateway.Translate(ctx, req)

		require.ErrorIs(t, err, domain.ErrNoViableProvider)
		require.Equal(t, 1, first.calls)
		require.Equal(t, 1, second.calls)
		require.Len(t, resolver.queries, 3)
		require.Equal(t, []string{"microsoft", "google"}, resolver.queries[2].Exclude)
	})

	t.Run("should treat a missing result as a failed translation", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		first.translateFunc = func(_ context.Context, _ *domain.EngineRequest) (*domain.TranslationResult, error) {
			return nil, nil
		}
		store := &mockStore{}
		store.On("Lookup", mock.Anything, mock.Anything).Return(nil, domain.ErrCacheMiss)
		store.On("Save", mock.Anything, mock.Anything, true).Return(nil)
		gateway := domain.NewGatewayService(newMockResolver(first, second), store, nil, domain.GatewayOptions{})

		_, err := gateway.Translate(ctx, newRequest())
		require.True(t, domain.IsProviderErrorKind(err, domain.TranslationFailed))

		req := newRequest()
		req.Fallback = true
		resp, err := gateway.Translate(ctx, req)
		gateway.Wait()

		require.NoError(t, err)
		require.Equal(t, "google", resp.Engine)
		require.Equal(t, []string{"microsoft"}, resp.FailedEngines)
		store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("should not fall back on unknown engine", func(t *testing.T) {
		gateway := domain.NewGatewayService(newMockResolver(newMockEngine("microsoft")), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.PreferredEngine = "babelfish"
		req.Fallback = true
		_, err := gateway.Translate(ctx, req)

		require.ErrorIs(t, err, domain.ErrUnknownProvider)
		var unknownErr *domain.UnknownProviderError
		require.ErrorAs(t, err, &unknownErr)
		require.Equal(t, "babelfish", unknownErr.Name)
		require.Equal(t, []string{"microsoft"}, unknownErr.Known)
	})

	t.Run("should fall back when the named engine cannot be constructed", func(t *testing.T) {
		first := newMockEngine("microsoft")
		resolver := newMockResolver(first)
		resolver.namedErr["deepl"] = domain.NewProviderError("deepl", domain.NotConfigured, "missing api key", nil)
		gateway := domain.NewGatewayService(resolver, nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.PreferredEngine = "deepl"
		req.Fallback = true
		resp, err := gateway.Translate(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "microsoft", resp.Engine)
		require.Equal(t, []string{"deepl"}, resp.FailedEngines)
		require.Equal(t, []string{"deepl", domain.BestEngine}, resolver.names)
	})

	t.Run("should reject an unsupported pair on a named engine before invoking it", func(t *testing.T) {
		named := newMockEngine("papago")
		named.pairs = domain.NewLanguagePairs(map[string][]string{"ko": {"en"}})
		gateway := domain.NewGatewayService(newMockResolver(named), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.PreferredEngine = "papago"
		_, err := gateway.Translate(ctx, req)

		require.True(t, domain.IsProviderErrorKind(err, domain.UnsupportedLanguagePair))
		require.Zero(t, named.calls)
	})

	t.Run("should reject detection on an engine without detection support", func(t *testing.T) {
		named := newMockEngine("yandex")
		named.desc.SupportsDetection = false
		gateway := domain.NewGatewayService(newMockResolver(named), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.FromLanguage = ""
		req.PreferredEngine = "yandex"
		_, err := gateway.Translate(ctx, req)

		require.True(t, domain.IsProviderErrorKind(err, domain.DetectionNotSupported))
	})

	t.Run("should reject alignment on an engine without alignment support", func(t *testing.T) {
		named := newMockEngine("amazon")
		named.desc.SupportsAlignment = false
		gateway := domain.NewGatewayService(newMockResolver(named), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.WithAlignment = true
		req.PreferredEngine = "amazon"
		_, err := gateway.Translate(ctx, req)

		require.True(t, domain.IsProviderErrorKind(err, domain.AlignmentNotSupported))
	})

	t.Run("should abort on unexpected engine errors even with fallback", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		unexpected := errors.New("nil pointer somewhere")
		first.translateFunc = func(_ context.Context, _ *domain.EngineRequest) (*domain.TranslationResult, error) {
			return nil, unexpected
		}
		gateway := domain.NewGatewayService(newMockResolver(first, second), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.Fallback = true
		_, err := gateway.Translate(ctx, req)

		require.ErrorIs(t, err, unexpected)
		require.Zero(t, second.calls)
	})

	t.Run("should abort when the context is cancelled", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		cancelCtx, cancel := context.WithCancel(ctx)
		first.translateFunc = func(_ context.Context, _ *domain.EngineRequest) (*domain.TranslationResult, error) {
			cancel()
			return nil, domain.NewProviderError("microsoft", domain.APIError, "request cancelled", context.Canceled)
		}
		gateway := domain.NewGatewayService(newMockResolver(first, second), nil, nil, domain.GatewayOptions{})

		req := newRequest()
		req.Fallback = true
		_, err := gateway.Translate(cancelCtx, req)

		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, second.calls)
	})

	t.Run("should reject invalid requests", func(t *testing.T) {
		resolver := newMockResolver(newMockEngine("microsoft"))
		gateway := domain.NewGatewayService(resolver, nil, nil, domain.GatewayOptions{})

		tests := []struct {
			name string
			req  *domain.TranslationRequest
		}{
			{name: "missing text", req: &domain.TranslationRequest{ToLanguage: "es"}},
			{name: "long target code", req: &domain.TranslationRequest{SourceText: "hi", ToLanguage: "spa"}},
			{name: "long source code", req: &domain.TranslationRequest{SourceText: "hi", FromLanguage: "eng", ToLanguage: "es"}},
		}

		for _, tt := range tests {
			_, err := gateway.Translate(ctx, tt.req)
			require.Error(t, err, tt.name)
		}

		_, err := gateway.Translate(ctx, nil)
		require.Error(t, err)
		require.Empty(t, resolver.names)
	})
}

func TestGatewayService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve a stored translation without invoking the engine", func(t *testing.T) {
		engine := newMockEngine("microsoft")
		store := &mockStore{}
		store.On("Lookup", mock.Anything, domain.Fingerprint{
			ToLanguage:   "es",
			SourceText:   "hello",
			FromLanguage: "en",
			Engine:       "microsoft",
		}).Return(&domain.TranslationResult{
			Engine:         "microsoft",
			EngineVersion:  "1",
			FromLanguage:   "en",
			ToLanguage:     "es",
			SourceText:     "hello",
			TranslatedText: "hola",
		}, nil)
		gateway := domain.NewGatewayService(newMockResolver(engine), store, nil, domain.GatewayOptions{})

		resp, err := gateway.Translate(ctx, newRequest())

		require.NoError(t, err)
		require.Equal(t, "hola", resp.TranslatedText)
		require.Equal(t, domain.SourceStore, resp.Source)
		require.Zero(t, engine.calls)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should save a fresh translation in the background", func(t *testing.T) {
		engine := newMockEngine("microsoft")
		store := &mockStore{}
		store.On("Lookup", mock.Anything, mock.Anything).Return(nil, domain.ErrCacheMiss)
		store.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.TranslationResult) bool {
			return r.TranslatedText == "microsoft:hello"
		}), false).Return(nil)
		gateway := domain.NewGatewayService(newMockResolver(engine), store, nil, domain.GatewayOptions{})

		req := newRequest()
		req.FromLanguage = ""
		resp, err := gateway.Translate(ctx, req)
		gateway.Wait()

		require.NoError(t, err)
		require.Equal(t, domain.SourceEngine, resp.Source)
		require.Equal(t, 1, engine.calls)
		store.AssertExpectations(t)
	})

	t.Run("should look up the store again for the fallback engine", func(t *testing.T) {
		first, second := newMockEngine("microsoft"), newMockEngine("google")
		first.translateFunc = failingWith(domain.APIError)
		store := &mockStore{}
		store.On("Lookup", mock.Anything, mock.MatchedBy(func(fp domain.Fingerprint) bool {
			return fp.Engine == "microsoft"
		})).Return(nil, domain.ErrCacheMiss)
		store.On("Lookup", mock.Anything, mock.MatchedBy(func(fp domain.Fingerprint) bool {
			return fp.Engine == "google"
		})).Return(&domain.TranslationResult{Engine: "google", TranslatedText: "hola"}, nil)
		gateway := domain.NewGatewayService(newMockResolver(first, second), store, nil, domain.GatewayOptions{})

		req := newRequest()
		req.Fallback = true
		resp, err := gateway.Translate(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "google", resp.Engine)
		require.Equal(t, domain.SourceStore, resp.Source)
		require.Equal(t, []string{"microsoft"}, resp.FailedEngines)
		require.Zero(t, second.calls)
	})

	t.Run("should ignore store failures", func(t *testing.T) {
		engine := newMockEngine("microsoft")
		store := &mockStore{}
		store.On("Lookup", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
		store.On("Save", mock.Anything, mock.Anything, true).Return(errors.New("connection refused"))
		gateway := domain.NewGatewayService(newMockResolver(engine), store, nil, domain.GatewayOptions{})

		resp, err := gateway.Translate(ctx, newRequest())
		gateway.Wait()

		require.NoError(t, err)
		require.Equal(t, "microsoft:hello", resp.TranslatedText)
		store.AssertExpectations(t)
	})
}
