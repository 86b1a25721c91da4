// Package mockdata holds the fixed sample articles served when the upstream API fails.
package mockdata

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/NewsFeed/internal/domain"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed articles.yaml
var articlesYAML []byte

// Catalog is an immutable set of sample articles.
// Every method returns a fresh slice; callers may modify results freely.
type Catalog struct {
	articles []domain.Article
}

// New parses the embedded dataset.
func New() (*Catalog, error) {
	return Parse(articlesYAML)
}

// Parse builds a catalog from a YAML list of articles.
func Parse(data []byte) (*Catalog, error) {
	var articles []domain.Article
	if err := yaml.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode mock articles: %w", err)
	}
	for i, a := range articles {
		if a.Title == "" || a.Category == "" {
			return nil, fmt.Errorf("mock article %d is missing title or category", i)
		}
	}
	return &Catalog{articles: articles}, nil
}

// All returns every sample article in dataset order.
func (c *Catalog) All() []domain.Article {
	return slices.Clone(c.articles)
}

// ByCategory returns the articles whose category equals category exactly.
func (c *Catalog) ByCategory(category string) []domain.Article {
	return lo.Filter(c.articles, func(a domain.Article, _ int) bool {
		return a.Category == category
	})
}

// Search returns the articles whose title or description contains query, ignoring case.
func (c *Catalog) Search(query string) []domain.Article {
	q := strings.ToLower(query)
	return lo.Filter(c.articles, func(a domain.Article, _ int) bool {
		return strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q)
	})
}
