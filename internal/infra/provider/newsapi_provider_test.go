package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/internal/infra/httpcache"
	"github.com/NewsFeed/internal/infra/transformer"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransformer is a mock implementation of domain.Transformer
type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Transform(reader io.Reader) ([]domain.Article, error) {
	args := m.Called(reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Article), args.Error(1)
}

const okEnvelope = `{"status":"ok","totalResults":1,"articles":[{"source":{"id":null,"name":"Wire"},"title":"Hello","url":"https://example.com/1","publishedAt":"2025-01-01T00:00:00Z"}]}`

func newProvider(serverURL string, threshold int) *NewsAPIProvider {
	return NewNewsAPIProvider(Options{
		BaseURL:          serverURL,
		APIKey:           "test-key",
		Country:          "us",
		ReuseWindow:      900 * time.Second,
		BreakerThreshold: threshold,
	}, transformer.NewNewsAPITransformer())
}

func TestNewsAPIProvider_TopHeadlines_Request(t *testing.T) {
	var got *url.URL
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL
		_, _ = w.Write([]byte(okEnvelope))
	}))
	defer server.Close()

	articles, err := newProvider(server.URL, 0).TopHeadlines(context.Background(), "technology")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Wire", articles[0].Source.Name)

	require.NotNil(t, got)
	assert.Equal(t, "/v2/top-headlines", got.Path)
	assert.Equal(t, "us", got.Query().Get("country"))
	assert.Equal(t, "technology", got.Query().Get("category"))
	assert.Equal(t, "test-key", got.Query().Get("apiKey"))
}

func TestNewsAPIProvider_Everything_Request(t *testing.T) {
	var got *url.URL
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL
		_, _ = w.Write([]byte(okEnvelope))
	}))
	defer server.Close()

	_, err := newProvider(server.URL+"/", 0).Everything(context.Background(), "climate & energy/2025")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/v2/everything", got.Path)
	assert.Equal(t, "climate & energy/2025", got.Query().Get("q"))
	assert.Equal(t, "popularity", got.Query().Get("sortBy"))
	assert.Equal(t, "test-key", got.Query().Get("apiKey"))
	assert.NotContains(t, got.RawQuery, " ")
}

func TestNewsAPIProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newProvider(server.URL, 0).TopHeadlines(context.Background(), "general")
	require.Error(t, err)

	var httpErr *domain.UpstreamHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "500 Internal Server Error", httpErr.Status)
	assert.Equal(t, EndpointTopHeadlines, httpErr.Endpoint)
}

func TestNewsAPIProvider_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	_, err := newProvider(server.URL, 0).Everything(context.Background(), "x")
	var parseErr *domain.UpstreamParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, EndpointEverything, parseErr.Endpoint)
}

func TestNewsAPIProvider_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	_, err := newProvider(serverURL, 0).TopHeadlines(context.Background(), "general")
	var transportErr *domain.UpstreamTransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestNewsAPIProvider_SingleAttempt(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newProvider(server.URL, 0).TopHeadlines(context.Background(), "general")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "failed calls are not retried")
}

func TestNewsAPIProvider_UsesTransformer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`anything`))
	}))
	defer server.Close()

	mockTransformer := new(MockTransformer)
	mockTransformer.On("Transform", mock.Anything).Return([]domain.Article{{Title: "from mock"}}, nil).Once()
	mockTransformer.On("Transform", mock.Anything).Return(nil, errors.New("bad payload")).Once()

	p := NewNewsAPIProvider(Options{BaseURL: server.URL, Country: "us"}, mockTransformer)

	articles, err := p.TopHeadlines(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, "from mock", articles[0].Title)

	_, err = p.TopHeadlines(context.Background(), "general")
	var parseErr *domain.UpstreamParseError
	assert.ErrorAs(t, err, &parseErr)

	mockTransformer.AssertExpectations(t)
}

func TestNewsAPIProvider_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newProvider(server.URL, 2)
	for i := 0; i < 2; i++ {
		_, err := p.TopHeadlines(context.Background(), "general")
		var httpErr *domain.UpstreamHTTPError
		require.ErrorAs(t, err, &httpErr)
	}

	_, err := p.TopHeadlines(context.Background(), "general")
	var transportErr *domain.UpstreamTransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load(), "open circuit short-circuits the call")
}

func TestNewsAPIProvider_ReuseHintServedFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(okEnvelope))
	}))
	defer server.Close()

	p := NewNewsAPIProvider(Options{
		BaseURL:     server.URL,
		Country:     "us",
		ReuseWindow: 900 * time.Second,
		Transport:   httpcache.NewTransport(nil, httpcache.NewMemoryStore(httpcache.DefaultMaxEntries, 0)),
	}, transformer.NewNewsAPITransformer())

	first, err := p.Everything(context.Background(), "finals")
	require.NoError(t, err)
	second, err := p.Everything(context.Background(), "finals")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}
