package app

import (
	"context"
	"log/slog"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/metrics"
)

// Fetcher is the data access layer as seen by the feed.
type Fetcher interface {
	FetchTopHeadlines(ctx context.Context, category string) (Result, error)
	FetchSearchResults(ctx context.Context, query string) (Result, error)
}

// FeedRequest carries the visitor's filters, taken from the request parameters.
type FeedRequest struct {
	Category string
	Query    string
}

// Feed is a resolved article list ready for presentation.
type Feed struct {
	Mode     string
	Category string
	Query    string
	Articles []domain.Article
	Fallback bool
}

// FeedService picks the data call for a request.
type FeedService struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewFeedService(fetcher Fetcher, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{fetcher: fetcher, logger: logger}
}

// Resolve returns the feed for req. A non-empty query searches and ignores the category;
// otherwise headlines for the category (default "All") are fetched.
// Resolve never fails: a data error yields an empty feed and one logged diagnostic.
func (s *FeedService) Resolve(ctx context.Context, req FeedRequest) Feed {
	feed := Feed{Query: req.Query}

	var (
		res Result
		err error
	)
	if req.Query != "" {
		feed.Mode = domain.ModeSearch
		res, err = s.fetcher.FetchSearchResults(ctx, req.Query)
	} else {
		feed.Mode = domain.ModeHeadlines
		feed.Category = req.Category
		if feed.Category == "" {
			feed.Category = domain.CategoryAll
		}
		res, err = s.fetcher.FetchTopHeadlines(ctx, feed.Category)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Feed fetch failed, serving empty feed",
			"mode", feed.Mode,
			"category", feed.Category,
			"query", feed.Query,
			"kind", domain.ErrorKind(err),
			"error", err,
		)
		metrics.FeedRequests.WithLabelValues(feed.Mode, "error").Inc()
		feed.Articles = []domain.Article{}
		return feed
	}

	status := "ok"
	if res.Fallback {
		status = "fallback"
	}
	metrics.FeedRequests.WithLabelValues(feed.Mode, status).Inc()

	feed.Articles = res.Articles
	if feed.Articles == nil {
		feed.Articles = []domain.Article{}
	}
	feed.Fallback = res.Fallback
	return feed
}
