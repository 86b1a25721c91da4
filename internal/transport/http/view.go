package http

import (
	"github.com/NewsFeed/internal/app"
	"github.com/NewsFeed/internal/domain"
	"github.com/samber/lo"
)

// FeedView is the payload the presentation layer renders.
type FeedView struct {
	Query    string           `json:"query"`
	Category string           `json:"category,omitempty"`
	Breaking *domain.Article  `json:"breaking,omitempty"`
	Articles []domain.Article `json:"articles"`
	Fallback bool             `json:"fallback"`
}

// NewFeedView splits a feed into hero and grid. While searching there is no hero.
func NewFeedView(feed app.Feed) FeedView {
	view := FeedView{
		Query:    feed.Query,
		Category: feed.Category,
		Articles: feed.Articles,
		Fallback: feed.Fallback,
	}
	if feed.Query != "" || len(feed.Articles) == 0 {
		return view
	}

	breaking, rest := SelectBreaking(feed.Articles)
	view.Breaking = &breaking
	view.Articles = rest
	return view
}

// SelectBreaking returns the first article flagged as breaking, or the first article,
// together with the remaining articles in order. articles must not be empty.
func SelectBreaking(articles []domain.Article) (domain.Article, []domain.Article) {
	_, idx, ok := lo.FindIndexOf(articles, func(a domain.Article) bool { return a.IsBreaking })
	if !ok {
		idx = 0
	}
	rest := lo.Reject(articles, func(_ domain.Article, i int) bool { return i == idx })
	return articles[idx], rest
}
