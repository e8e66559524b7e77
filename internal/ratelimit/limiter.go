package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-provenance/internal/logger"
)

// ErrQueueTimeout is returned when no token was available within the configured queue time
var ErrQueueTimeout = errors.New("rate limit queue time exceeded")

// Limiter throttles outbound requests to one provider
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Wait blocks until a request may be sent, ctx is done, or the queue time is exceeded
	Wait(ctx context.Context) error
}

// Config holds the limits of one provider
type Config struct {
	RequestsPerSecond float64
	Burst             int
	MaxQueueTime      time.Duration
}

type limiter struct {
	name         string
	limiter      *rate.Limiter
	maxQueueTime time.Duration
}

// New returns a token bucket limiter for the named provider, or nil when
// RequestsPerSecond is not positive. A nil Limiter means unlimited.
func New(name string, cfg Config) Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}

	burst := cfg.Burst
	if burst <= 0 {
		// Minimum burst of 1
		burst = max(int(cfg.RequestsPerSecond), 1)
	}

	logger.Info("Rate limiter initialized",
		zap.String("provider", name),
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", burst),
		zap.Duration("max_queue_time", cfg.MaxQueueTime),
	)

	return &limiter{
		name:         name,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		maxQueueTime: cfg.MaxQueueTime,
	}
}

func (l *limiter) Wait(ctx context.Context) error {
	queueCtx := ctx
	if l.maxQueueTime > 0 {
		var cancel context.CancelFunc
		queueCtx, cancel = context.WithTimeout(ctx, l.maxQueueTime)
		defer cancel()
	}

	err := l.limiter.Wait(queueCtx)
	if err == nil {
		return nil
	}

	// The caller's own cancellation wins over the queue timeout
	if ctx.Err() != nil {
		return ctx.Err()
	}

	logger.Debug("Rate limit token unavailable",
		zap.String("provider", l.name),
		zap.Duration("max_queue_time", l.maxQueueTime),
		zap.Error(err),
	)
	return fmt.Errorf("%w for %s: %v", ErrQueueTimeout, l.name, err)
}
