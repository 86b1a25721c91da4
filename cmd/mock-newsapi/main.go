// Command mock-newsapi serves a stand-in for the NewsAPI headlines and search
// endpoints. Point NEWS_API_BASE_URL at it for local runs. ?fail=<status> or
// MOCK_NEWSAPI_FAIL=<status> forces an error response.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NewsFeed/internal/domain"
	"github.com/gorilla/mux"
)

func main() {
	r := mux.NewRouter()
	r.HandleFunc("/v2/top-headlines", func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		category := r.URL.Query().Get("category")
		respond(w, []domain.Article{
			sample("101", "Headline for "+category, time.Now()),
			sample("102", "Another "+category+" story", time.Now().Add(-1*time.Hour)),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/v2/everything", func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		q := r.URL.Query().Get("q")
		respond(w, []domain.Article{
			sample("201", "Results for "+strings.TrimSpace(q), time.Now()),
		})
	}).Methods(http.MethodGet)

	addr := ":" + getEnv("MOCK_NEWSAPI_PORT", "8081")
	slog.Info("Mock NewsAPI server running", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func sample(id, title string, published time.Time) domain.Article {
	return domain.Article{
		Source:      domain.Source{ID: "mock", Name: "Mock Wire"},
		Author:      "Mock Author",
		Title:       title,
		Description: "Generated by the mock NewsAPI server.",
		URL:         "http://localhost/articles/" + id,
		PublishedAt: published.UTC().Format(time.RFC3339),
	}
}

func fail(w http.ResponseWriter, r *http.Request) bool {
	raw := r.URL.Query().Get("fail")
	if raw == "" {
		raw = os.Getenv("MOCK_NEWSAPI_FAIL")
	}
	if raw == "" {
		return false
	}
	status, err := strconv.Atoi(raw)
	if err != nil || status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"code":    "mockFailure",
		"message": "forced failure",
	})
	return true
}

func respond(w http.ResponseWriter, articles []domain.Article) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(domain.APIResponse{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
