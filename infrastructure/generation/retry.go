package generation

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// RetryConfig controls retry behavior for generation calls
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// DefaultRetryConfig returns sensible retry defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.5,
	}
}

// RetryGenerator wraps a TextGenerator with retry on transient failures.
// Only rate-limit and unavailable classes are retried; auth failures and
// deadline overruns return immediately.
type RetryGenerator struct {
	inner  ports.TextGenerator
	config RetryConfig
	logger *zap.Logger
}

// NewRetryGenerator creates a retrying decorator around a generator
func NewRetryGenerator(inner ports.TextGenerator, config RetryConfig, logger *zap.Logger) *RetryGenerator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &RetryGenerator{
		inner:  inner,
		config: config,
		logger: logger.Named("generation.retry"),
	}
}

// Generate calls the wrapped generator, retrying transient failures
func (r *RetryGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		text, err := r.inner.Generate(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !pkgerrors.IsRetryable(err) {
			return "", err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		wait := r.jittered(delay)
		r.logger.Warn("generation attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return "", pkgerrors.NewGenerationTimeoutError(ctx.Err())
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}

	return "", lastErr
}

// jittered spreads the delay across [delay*(1-j), delay*(1+j)] so that
// concurrent callers hitting the same rate limit do not retry in lockstep
func (r *RetryGenerator) jittered(delay time.Duration) time.Duration {
	if r.config.JitterFactor <= 0 {
		return delay
	}
	spread := (rand.Float64()*2 - 1) * r.config.JitterFactor
	return time.Duration(float64(delay) * (1 + spread))
}
