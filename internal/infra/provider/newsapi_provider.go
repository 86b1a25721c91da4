package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/httpcache"
	"github.com/NewsFeed/internal/infra/metrics"
	"github.com/sony/gobreaker"
)

const (
	EndpointTopHeadlines = "top-headlines"
	EndpointEverything   = "everything"
)

// Options configures a NewsAPIProvider.
type Options struct {
	BaseURL     string
	APIKey      string
	Country     string
	ReuseWindow time.Duration // attached to every request as a reuse hint
	Timeout     time.Duration // 0 leaves the transport default
	// BreakerThreshold is the number of consecutive failures that opens the
	// circuit. 0 disables the breaker.
	BreakerThreshold int
	Transport        http.RoundTripper
}

// NewsAPIProvider calls the NewsAPI headlines and search endpoints.
// Each call is a single attempt; there are no retries.
type NewsAPIProvider struct {
	baseURL     string
	apiKey      string
	country     string
	reuse       time.Duration
	client      *http.Client
	transformer domain.Transformer
	cb          *gobreaker.CircuitBreaker
}

var _ domain.NewsSource = (*NewsAPIProvider)(nil)

func NewNewsAPIProvider(opts Options, transformer domain.Transformer) *NewsAPIProvider {
	p := &NewsAPIProvider{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		country: opts.Country,
		reuse:   opts.ReuseWindow,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		transformer: transformer,
	}

	if opts.BreakerThreshold > 0 {
		threshold := uint32(opts.BreakerThreshold)
		p.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "newsapi",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
			},
		})
	}

	return p
}

// TopHeadlines fetches headlines for an upstream category code.
func (p *NewsAPIProvider) TopHeadlines(ctx context.Context, categoryCode string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("country", p.country)
	params.Set("category", categoryCode)
	params.Set("apiKey", p.apiKey)
	return p.fetch(ctx, EndpointTopHeadlines, p.endpointURL(EndpointTopHeadlines, params))
}

// Everything searches all articles, most popular first.
func (p *NewsAPIProvider) Everything(ctx context.Context, query string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "popularity")
	params.Set("apiKey", p.apiKey)
	return p.fetch(ctx, EndpointEverything, p.endpointURL(EndpointEverything, params))
}

func (p *NewsAPIProvider) endpointURL(endpoint string, params url.Values) string {
	return fmt.Sprintf("%s/v2/%s?%s", p.baseURL, endpoint, params.Encode())
}

func (p *NewsAPIProvider) fetch(ctx context.Context, endpoint, rawURL string) ([]domain.Article, error) {
	start := time.Now()
	articles, err := p.execute(endpoint, func() ([]domain.Article, error) {
		return p.do(ctx, endpoint, rawURL)
	})
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = domain.ErrorKind(err)
	}
	metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()

	return articles, err
}

func (p *NewsAPIProvider) execute(endpoint string, fn func() ([]domain.Article, error)) ([]domain.Article, error) {
	if p.cb == nil {
		return fn()
	}

	res, err := p.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.UpstreamTransportError{Endpoint: endpoint, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return res.([]domain.Article), nil
}

func (p *NewsAPIProvider) do(ctx context.Context, endpoint, rawURL string) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(httpcache.WithReuse(ctx, p.reuse), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.UpstreamTransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamTransportError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamHTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	articles, err := p.transformer.Transform(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamParseError{Endpoint: endpoint, Err: err}
	}
	return articles, nil
}
