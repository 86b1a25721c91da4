package transformer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/NewsFeed/internal/domain"
)

const statusOK = "ok"

// newsAPIResponse is the upstream envelope plus the error fields NewsAPI sends
// alongside status "error".
type newsAPIResponse struct {
	domain.APIResponse
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewsAPITransformer decodes and validates a NewsAPI envelope.
// Category is left empty; callers assign it.
type NewsAPITransformer struct{}

func NewNewsAPITransformer() *NewsAPITransformer {
	return &NewsAPITransformer{}
}

func (t *NewsAPITransformer) Transform(reader io.Reader) ([]domain.Article, error) {
	var resp newsAPIResponse
	if err := json.NewDecoder(reader).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}

	if resp.Status != statusOK {
		if resp.Message != "" {
			return nil, fmt.Errorf("unexpected status %q (%s: %s)", resp.Status, resp.Code, resp.Message)
		}
		return nil, fmt.Errorf("unexpected status %q", resp.Status)
	}
	if resp.Articles == nil {
		return nil, errors.New("envelope has no articles field")
	}

	return resp.Articles, nil
}
