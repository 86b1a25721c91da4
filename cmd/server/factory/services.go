package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/NewsFeed/internal/app"
	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/httpcache"
	"github.com/NewsFeed/internal/infra/mockdata"
	"github.com/NewsFeed/internal/infra/provider"
	"github.com/NewsFeed/internal/infra/transformer"
	transport "github.com/NewsFeed/internal/transport/http"
	"github.com/NewsFeed/pkg/config"
)

// NewNewsSource creates the upstream NewsAPI client.
func NewNewsSource(cfg *config.Config, store httpcache.Store) (domain.NewsSource, error) {
	if cfg.NewsAPIBaseURL == "" {
		return nil, errors.New("news API base URL not configured")
	}
	if cfg.BreakerThreshold < 0 {
		return nil, fmt.Errorf("invalid breaker threshold: %d (must be >= 0)", cfg.BreakerThreshold)
	}
	if cfg.NewsAPIKey == "" {
		slog.Warn("NEWS_API_KEY is empty, upstream calls will fail and fall back")
	}

	opts := provider.Options{
		BaseURL:          cfg.NewsAPIBaseURL,
		APIKey:           cfg.NewsAPIKey,
		Country:          cfg.Country,
		ReuseWindow:      cfg.ReuseWindow,
		Timeout:          cfg.UpstreamTimeout,
		BreakerThreshold: cfg.BreakerThreshold,
	}
	if store != nil {
		opts.Transport = httpcache.NewTransport(nil, store)
	}

	slog.Info("Registered news source", "base_url", cfg.NewsAPIBaseURL, "cache", cfg.CacheBackend, "breaker_threshold", cfg.BreakerThreshold)
	return provider.NewNewsAPIProvider(opts, transformer.NewNewsAPITransformer()), nil
}

// NewCatalog loads the embedded mock dataset.
func NewCatalog() (app.Catalog, error) {
	return mockdata.New()
}

// NewNewsService creates the data access layer.
func NewNewsService(
	source domain.NewsSource,
	catalog app.Catalog,
	cfg *config.Config,
) (*app.NewsService, error) {
	if source == nil {
		return nil, errors.New("news source is nil")
	}
	if catalog == nil {
		return nil, errors.New("mock catalog is nil")
	}
	return app.NewNewsService(source, catalog, cfg.UseMockOnError, slog.Default()), nil
}

// NewFeedService creates the feed orchestrator.
func NewFeedService(news *app.NewsService) *app.FeedService {
	return app.NewFeedService(news, slog.Default())
}

// NewHandler creates the HTTP handler set.
func NewHandler(feeds *app.FeedService, events domain.EventPublisher) *transport.Handler {
	return transport.NewHandler(feeds, events, slog.Default())
}
