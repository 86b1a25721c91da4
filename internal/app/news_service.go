package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/metrics"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "news-feed"

// Catalog is the fixed dataset served when the upstream fails.
// Implementations must return slices the caller may modify.
type Catalog interface {
	All() []domain.Article
	ByCategory(category string) []domain.Article
	Search(query string) []domain.Article
}

// Result is the outcome of a data fetch.
type Result struct {
	Articles []domain.Article
	// Fallback is set when Articles came from the mock catalog.
	Fallback bool
	// Cause is the upstream error that triggered the fallback.
	Cause error
}

// NewsService fetches articles from the upstream and applies the fallback policy.
// It holds no per-request state and is safe for concurrent use.
type NewsService struct {
	source  domain.NewsSource
	catalog Catalog
	useMock bool
	logger  *slog.Logger
}

func NewNewsService(
	source domain.NewsSource,
	catalog Catalog,
	useMock bool,
	logger *slog.Logger,
) *NewsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsService{
		source:  source,
		catalog: catalog,
		useMock: useMock,
		logger:  logger,
	}
}

// FetchTopHeadlines returns headlines for a UI category label. An empty label means "All".
//
// Upstream articles are relabelled with "General" for "All" and with the literal label
// otherwise, never with the upstream code. On failure the mock catalog is used when
// enabled: everything for "All" and "Top Stories", exact category matches otherwise.
func (s *NewsService) FetchTopHeadlines(ctx context.Context, category string) (Result, error) {
	if category == "" {
		category = domain.CategoryAll
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "FetchTopHeadlines")
	defer span.End()
	code := domain.UpstreamCode(category)
	span.SetAttributes(attribute.String("category", category), attribute.String("upstream_code", code))

	articles, err := s.source.TopHeadlines(ctx, code)
	if err != nil {
		span.RecordError(err)
		return s.fallback(ctx, domain.ModeHeadlines, err, func() []domain.Article {
			if domain.ShowsEverything(category) {
				return s.catalog.All()
			}
			return s.catalog.ByCategory(category)
		})
	}

	label := domain.HeadlineLabel(category)
	return Result{Articles: relabel(articles, func(domain.Article) string { return label })}, nil
}

// FetchSearchResults searches the upstream for query. Each article is labelled with its
// source name, or "Search" when the source is unnamed. On failure the mock catalog is
// searched by title and description when enabled.
func (s *NewsService) FetchSearchResults(ctx context.Context, query string) (Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FetchSearchResults")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	articles, err := s.source.Everything(ctx, query)
	if err != nil {
		span.RecordError(err)
		return s.fallback(ctx, domain.ModeSearch, err, func() []domain.Article {
			return s.catalog.Search(query)
		})
	}

	return Result{Articles: relabel(articles, func(a domain.Article) string {
		if a.Source.Name != "" {
			return a.Source.Name
		}
		return domain.SearchLabel
	})}, nil
}

func (s *NewsService) fallback(ctx context.Context, mode string, cause error, mock func() []domain.Article) (Result, error) {
	if !s.useMock {
		return Result{}, fmt.Errorf("%s fetch failed: %w", mode, cause)
	}

	articles := mock()
	metrics.FallbackServed.WithLabelValues(mode).Inc()
	s.logger.WarnContext(ctx, "Upstream fetch failed, switching to mock data",
		"mode", mode,
		"kind", domain.ErrorKind(cause),
		"error", cause,
		"articles", len(articles),
	)
	return Result{Articles: articles, Fallback: true, Cause: cause}, nil
}

func relabel(articles []domain.Article, category func(domain.Article) string) []domain.Article {
	return lo.Map(articles, func(a domain.Article, _ int) domain.Article {
		a.Category = category(a)
		return a
	})
}
