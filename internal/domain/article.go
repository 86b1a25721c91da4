package domain

import (
	"context"
	"time"
)

// Article represents one news item as served to the feed.
// Field names follow the upstream NewsAPI payload; null upstream strings decode to "".
// PublishedAt is the upstream ISO-8601 timestamp, passed through unparsed.
type Article struct {
	Source      Source `json:"source" yaml:"source"`
	Author      string `json:"author,omitempty" yaml:"author"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	URLToImage  string `json:"urlToImage,omitempty" yaml:"urlToImage"`
	PublishedAt string `json:"publishedAt" yaml:"publishedAt"`
	Content     string `json:"content,omitempty" yaml:"content"`
	Category    string `json:"category" yaml:"category"` // Always assigned locally, never by upstream
	IsBreaking  bool   `json:"isBreaking,omitempty" yaml:"isBreaking"`
}

// Source identifies the publisher of an article.
type Source struct {
	ID   string `json:"id,omitempty" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// APIResponse is the envelope returned by both upstream endpoints.
type APIResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Comment is a reader comment on the detail view. It is never persisted.
type Comment struct {
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
	Avatar string    `json:"avatar"`
}

// NewsSource is the upstream headlines/search API.
// Implementations return one of the Upstream*Error types on failure.
type NewsSource interface {
	TopHeadlines(ctx context.Context, categoryCode string) ([]Article, error)
	Everything(ctx context.Context, query string) ([]Article, error)
}

// FeedEvent records one feed served to a visitor.
type FeedEvent struct {
	ID       string    `json:"id"`
	Mode     string    `json:"mode"` // "headlines" or "search"
	Category string    `json:"category,omitempty"`
	Query    string    `json:"query,omitempty"`
	Count    int       `json:"count"`
	Fallback bool      `json:"fallback"`
	ServedAt time.Time `json:"served_at"`
}

// EventPublisher publishes feed events to a queue.
type EventPublisher interface {
	Publish(ctx context.Context, event FeedEvent) error
	Close() error
}
