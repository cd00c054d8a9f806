// Package gateway wraps an embedding provider with batching, bounded
// retries, and client-side rate limiting.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.EmbeddingService = (*Gateway)(nil)

// Default retry and rate limit parameters.
const (
	DefaultMaxAttempts       = 3
	DefaultBaseDelay         = 500 * time.Millisecond
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5
)

// Gateway is an EmbeddingService decorator. It splits oversized batches
// to the provider's limit, retries transient failures with exponential
// backoff, and paces requests with a token bucket.
type Gateway struct {
	inner       driven.EmbeddingService
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures the gateway.
type Option func(*Gateway)

// WithMaxAttempts sets the attempt budget per request.
func WithMaxAttempts(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the first retry delay; later delays double it.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.baseDelay = d
		}
	}
}

// WithRateLimit sets the request pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New wraps an embedding provider.
func New(inner driven.EmbeddingService, opts ...Option) *Gateway {
	g := &Gateway{
		inner:       inner,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed generates a vector embedding for the given text.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrEmbeddingFailed)
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for all texts, preserving input
// order. Batches beyond the provider limit are split; each sub-batch
// gets its own retry budget.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	limit := g.inner.MaxBatchSize()
	if limit <= 0 {
		limit = len(texts)
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += limit {
		end := start + limit
		if end > len(texts) {
			end = len(texts)
		}

		vecs, err := g.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: texts %d-%d of %d: %w",
				domain.ErrEmbeddingFailed, start, end-1, len(texts), err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: texts %d-%d: provider returned %d vectors for %d inputs",
				domain.ErrEmbeddingFailed, start, end-1, len(vecs), end-start)
		}
		result = append(result, vecs...)
	}

	return result, nil
}

// embedWithRetry runs one sub-batch through the limiter and retry loop.
func (g *Gateway) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vecs, err := g.inner.EmbedBatch(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt == g.maxAttempts {
			break
		}

		delay := g.baseDelay << (attempt - 1)
		logger.Warn("embedding attempt %d/%d failed, retrying in %s: %v",
			attempt, g.maxAttempts, delay, err)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%d attempts exhausted: %w", g.maxAttempts, lastErr)
}

// retryable reports whether the provider error is transient.
// Rate limits, 5xx responses, and transport timeouts qualify; client
// errors like invalid input do not.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Dimensions returns the embedding vector size.
func (g *Gateway) Dimensions() int {
	return g.inner.Dimensions()
}

// MaxBatchSize returns the wrapped provider's limit.
func (g *Gateway) MaxBatchSize() int {
	return g.inner.MaxBatchSize()
}

// ModelName returns the wrapped provider's model name.
func (g *Gateway) ModelName() string {
	return g.inner.ModelName()
}

// Ping validates the wrapped provider is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

// Close releases the wrapped provider's resources.
func (g *Gateway) Close() error {
	return g.inner.Close()
}
