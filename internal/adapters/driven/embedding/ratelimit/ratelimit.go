// Package ratelimit throttles calls to an embedding service.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/phapdien/internal/adapters/driven/embedding"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults used when Config fields are zero.
const (
	DefaultBurst      = 4
	DefaultMaxRetries = 2
	DefaultBackoff    = 5 * time.Second
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables throttling.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// MaxRetries is how many times a retryable provider error is retried.
	MaxRetries int

	// Backoff is the pause after a retryable error, doubled on each retry.
	Backoff time.Duration
}

// EmbeddingService wraps another service with a token bucket and backoff
// on 429 and 5xx responses.
type EmbeddingService struct {
	next       driven.EmbeddingService
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration

	mu      sync.Mutex
	retryAt time.Time
}

// Wrap decorates next.
func Wrap(next driven.EmbeddingService, cfg Config) *EmbeddingService {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &EmbeddingService{
		next:       next,
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.call(ctx, func() error {
		var err error
		out, err = s.next.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings for multiple texts. A batch costs one token.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := s.call(ctx, func() error {
		var err error
		out, err = s.next.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping is passed through without throttling.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}

func (s *EmbeddingService) call(ctx context.Context, fn func() error) error {
	backoff := s.backoff
	for attempt := 0; ; attempt++ {
		if err := s.wait(ctx); err != nil {
			return err
		}
		err := fn()
		var apiErr *embedding.APIError
		if err == nil || attempt >= s.maxRetries || !errors.As(err, &apiErr) || !apiErr.Retryable() {
			return err
		}
		logger.Warn("embedding request throttled (status %d), retrying in %s", apiErr.Status, backoff)
		s.deferUntil(time.Now().Add(backoff))
		backoff *= 2
	}
}

// wait honours any backoff window, then the token bucket.
func (s *EmbeddingService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return s.limiter.Wait(ctx)
}

func (s *EmbeddingService) deferUntil(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.retryAt) {
		s.retryAt = t
	}
}
