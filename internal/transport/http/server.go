package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NewsFeed/internal/app"
	"github.com/NewsFeed/internal/domain"
	"github.com/NewsFeed/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeedResolver resolves a visitor's filters into a feed.
type FeedResolver interface {
	Resolve(ctx context.Context, req app.FeedRequest) app.Feed
}

type Handler struct {
	feeds  FeedResolver
	events domain.EventPublisher
	logger *slog.Logger
}

func NewHandler(feeds FeedResolver, events domain.EventPublisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{feeds: feeds, events: events, logger: logger}
}

func NewHTTPServer(cfg *config.Config, h *Handler) *http.Server {
	var limiter *RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	}

	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(h, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the route table. A nil limiter disables rate limiting.
func NewRouter(h *Handler, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()
	if limiter != nil {
		api.Use(limiter.Middleware)
	}
	api.HandleFunc("/feed", h.GetFeed).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.GetCategories).Methods(http.MethodGet)

	return r
}

// GetFeed serves GET /api/feed?category=&q=.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	feed := h.feeds.Resolve(r.Context(), app.FeedRequest{
		Category: params.Get("category"),
		Query:    params.Get("q"),
	})

	event := domain.FeedEvent{
		ID:       uuid.NewString(),
		Mode:     feed.Mode,
		Category: feed.Category,
		Query:    feed.Query,
		Count:    len(feed.Articles),
		Fallback: feed.Fallback,
		ServedAt: time.Now().UTC(),
	}
	if err := h.events.Publish(r.Context(), event); err != nil {
		h.logger.Warn("Failed to publish feed event", "id", event.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, NewFeedView(feed))
}

// GetCategories serves the label table behind the category pills.
func (h *Handler) GetCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Categories)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
