// Package httpcache serves repeated upstream GETs from a store while a per-request
// reuse window is open.
package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/NewsFeed/internal/infra/metrics"
)

// Entry is a stored upstream response.
type Entry struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	StoredAt   time.Time
}

// Store keeps entries until their expiry.
// Get reports found=false for missing and expired entries alike.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

type reuseKey struct{}

// WithReuse attaches a reuse window to ctx. Requests made with the returned context
// may be answered from the store for up to window.
func WithReuse(ctx context.Context, window time.Duration) context.Context {
	return context.WithValue(ctx, reuseKey{}, window)
}

func reuseWindow(ctx context.Context) time.Duration {
	d, _ := ctx.Value(reuseKey{}).(time.Duration)
	return d
}

// Transport is an http.RoundTripper that honours the reuse hint.
type Transport struct {
	next  http.RoundTripper
	store Store
	now   func() time.Time
}

// NewTransport wraps next. A nil next uses http.DefaultTransport.
func NewTransport(next http.RoundTripper, store Store) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{next: next, store: store, now: time.Now}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	window := reuseWindow(req.Context())
	if req.Method != http.MethodGet || window <= 0 || t.store == nil {
		return t.next.RoundTrip(req)
	}

	key := Key(req.URL.String())
	entry, found, err := t.store.Get(req.Context(), key)
	if err != nil {
		// Store errors degrade to a miss.
		slog.Warn("Response cache lookup failed", "error", err)
	}
	if found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return entry.response(req), nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		slog.Warn("Failed to close response body", "error", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}

	entry = Entry{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   t.now(),
	}
	if err := t.store.Set(req.Context(), key, entry, window); err != nil {
		slog.Warn("Response cache store failed", "error", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (e Entry) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Key derives the store key for a URL. URLs carry the API key, so only the digest is kept.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
