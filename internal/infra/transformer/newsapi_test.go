package transformer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPITransformer_Transform(t *testing.T) {
	payload := `{
		"status": "ok",
		"totalResults": 2,
		"articles": [
			{
				"source": {"id": "bbc-news", "name": "BBC News"},
				"author": null,
				"title": "Markets rally",
				"description": "Stocks rose.",
				"url": "https://example.com/a",
				"urlToImage": null,
				"publishedAt": "2025-03-01T08:30:00Z",
				"content": "Stocks rose sharply... [+120 chars]"
			},
			{
				"source": {"id": null, "name": ""},
				"title": "Untitled source",
				"url": "https://example.com/b",
				"publishedAt": "2025-03-02T09:00:00Z"
			}
		]
	}`

	articles, err := NewNewsAPITransformer().Transform(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "bbc-news", a.Source.ID)
	assert.Equal(t, "BBC News", a.Source.Name)
	assert.Empty(t, a.Author)
	assert.Empty(t, a.URLToImage)
	assert.Equal(t, "2025-03-01T08:30:00Z", a.PublishedAt)
	assert.Empty(t, a.Category, "category is assigned by the caller")
	assert.False(t, a.IsBreaking)

	assert.Empty(t, articles[1].Source.ID)
	assert.Empty(t, articles[1].Source.Name)
}

func TestNewsAPITransformer_KeepsTimestampsVerbatim(t *testing.T) {
	payload := `{"status":"ok","totalResults":4,"articles":[
		{"title":"offset","url":"https://example.com/1","publishedAt":"2025-11-07T10:00:00+0000"},
		{"title":"no seconds","url":"https://example.com/2","publishedAt":"2025-11-07T10:00Z"},
		{"title":"empty","url":"https://example.com/3","publishedAt":""},
		{"title":"null","url":"https://example.com/4","publishedAt":null}
	]}`

	articles, err := NewNewsAPITransformer().Transform(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, articles, 4)
	assert.Equal(t, "2025-11-07T10:00:00+0000", articles[0].PublishedAt)
	assert.Equal(t, "2025-11-07T10:00Z", articles[1].PublishedAt)
	assert.Empty(t, articles[2].PublishedAt)
	assert.Empty(t, articles[3].PublishedAt)
}

func TestNewsAPITransformer_EmptyArticles(t *testing.T) {
	articles, err := NewNewsAPITransformer().Transform(strings.NewReader(`{"status":"ok","totalResults":0,"articles":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestNewsAPITransformer_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `<html>oops</html>`,
		"truncated":        `{"status":"ok","articles":[{"title":`,
		"error status":     `{"status":"error","code":"rateLimited","message":"Too many requests"}`,
		"missing status":   `{"articles":[]}`,
		"missing articles": `{"status":"ok","totalResults":3}`,
		"wrong shape":      `{"status":"ok","articles":{"title":"x"}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewNewsAPITransformer().Transform(strings.NewReader(payload))
			assert.Error(t, err)
		})
	}
}

func TestNewsAPITransformer_ErrorStatusCarriesMessage(t *testing.T) {
	_, err := NewNewsAPITransformer().Transform(strings.NewReader(`{"status":"error","code":"apiKeyMissing","message":"Your API key is missing."}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyMissing")
}
