package generation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	pkgerrors "ideaflow-backend/pkg/errors"
)

type scriptedGenerator struct {
	errs  []error
	text  string
	calls int32
}

func (s *scriptedGenerator) Generate(_ context.Context, _ string, _ ports.GenerationOptions) (string, error) {
	n := int(atomic.AddInt32(&s.calls, 1))
	if n <= len(s.errs) && s.errs[n-1] != nil {
		return "", s.errs[n-1]
	}
	return s.text, nil
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0,
	}
}

func TestRetryGenerator_SucceedsFirstAttempt(t *testing.T) {
	// Arrange
	inner := &scriptedGenerator{text: "answer"}
	gen := NewRetryGenerator(inner, fastRetryConfig(), zap.NewNop())

	// Act
	text, err := gen.Generate(context.Background(), "prompt", ports.GenerationOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.EqualValues(t, 1, inner.calls)
}

func TestRetryGenerator_RetriesRateLimit(t *testing.T) {
	// Arrange
	inner := &scriptedGenerator{
		errs: []error{
			pkgerrors.NewGenerationRateLimitedError(errors.New("429")),
			pkgerrors.NewGenerationUnavailableError(errors.New("503")),
			nil,
		},
		text: "answer",
	}
	gen := NewRetryGenerator(inner, fastRetryConfig(), zap.NewNop())

	// Act
	text, err := gen.Generate(context.Background(), "prompt", ports.GenerationOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.EqualValues(t, 3, inner.calls)
}

func TestRetryGenerator_ExhaustsAttempts(t *testing.T) {
	// Arrange
	rateLimited := pkgerrors.NewGenerationRateLimitedError(errors.New("429"))
	inner := &scriptedGenerator{
		errs: []error{rateLimited, rateLimited, rateLimited},
	}
	gen := NewRetryGenerator(inner, fastRetryConfig(), zap.NewNop())

	// Act
	_, err := gen.Generate(context.Background(), "prompt", ports.GenerationOptions{})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimit(err))
	assert.EqualValues(t, 3, inner.calls)
}

func TestRetryGenerator_DoesNotRetryAuthFailure(t *testing.T) {
	// Arrange
	inner := &scriptedGenerator{
		errs: []error{pkgerrors.NewGenerationAuthError(errors.New("401"))},
	}
	gen := NewRetryGenerator(inner, fastRetryConfig(), zap.NewNop())

	// Act
	_, err := gen.Generate(context.Background(), "prompt", ports.GenerationOptions{})

	// Assert
	require.Error(t, err)
	assert.False(t, pkgerrors.IsRetryable(err))
	assert.Equal(t, "GENERATION_AUTH_FAILED", pkgerrors.GetAppError(err).Code)
	assert.EqualValues(t, 1, inner.calls)
}

func TestRetryGenerator_DoesNotRetryTimeout(t *testing.T) {
	// Arrange
	inner := &scriptedGenerator{
		errs: []error{pkgerrors.NewGenerationTimeoutError(context.DeadlineExceeded)},
	}
	gen := NewRetryGenerator(inner, fastRetryConfig(), zap.NewNop())

	// Act
	_, err := gen.Generate(context.Background(), "prompt", ports.GenerationOptions{})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.EqualValues(t, 1, inner.calls)
}

func TestRetryGenerator_StopsWhenContextCancelled(t *testing.T) {
	// Arrange
	rateLimited := pkgerrors.NewGenerationRateLimitedError(errors.New("429"))
	inner := &scriptedGenerator{errs: []error{rateLimited, rateLimited, rateLimited}}
	cfg := fastRetryConfig()
	cfg.InitialDelay = time.Second
	gen := NewRetryGenerator(inner, cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := gen.Generate(ctx, "prompt", ports.GenerationOptions{})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.EqualValues(t, 1, inner.calls)
}
