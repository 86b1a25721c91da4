package logging

import (
	"context"
	"log/slog"
	"sync"
)

// ErrorSampler reduces log noise by sampling repeated errors.
// It logs the first occurrence of a key, then every Nth.
type ErrorSampler struct {
	mu       sync.Mutex
	counts   map[string]int
	interval int
}

// NewErrorSampler creates a sampler that logs every interval-th occurrence
// (e.g. 10 logs the 1st, 10th, 20th...). Values below 1 default to 10.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// ShouldLog counts one occurrence of key and reports whether to log it.
func (s *ErrorSampler) ShouldLog(key string) bool {
	_, ok := s.observe(key)
	return ok
}

func (s *ErrorSampler) observe(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[key]++
	count := s.counts[key]
	return count, count == 1 || count%s.interval == 0
}

// Log writes msg at level when the occurrence is sampled in. The running
// count is attached as "occurrences".
func (s *ErrorSampler) Log(ctx context.Context, logger *slog.Logger, level slog.Level, key, msg string, args ...any) bool {
	count, ok := s.observe(key)
	if !ok {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, level, msg, append(args, "occurrences", count)...)
	return true
}

// GetCount returns the current count for a key.
func (s *ErrorSampler) GetCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Reset clears the count for a key, e.g. once the upstream recovers.
func (s *ErrorSampler) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
}

// ResetAll clears all counts.
func (s *ErrorSampler) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int)
}
