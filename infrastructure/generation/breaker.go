package generation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// BreakerGenerator wraps a TextGenerator with a circuit breaker so a
// persistently failing provider sheds load fast instead of making every
// request wait out the full retry schedule.
type BreakerGenerator struct {
	inner   ports.TextGenerator
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerGenerator creates a circuit-breaking decorator around a generator
func NewBreakerGenerator(inner ports.TextGenerator, logger *zap.Logger) *BreakerGenerator {
	log := logger.Named("generation.breaker")

	settings := gobreaker.Settings{
		Name:        "text-generation",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Caller mistakes must not trip the breaker; only provider-side
			// failures count against it.
			if err == nil {
				return true
			}
			return !pkgerrors.IsRetryable(err) && !pkgerrors.IsTimeout(err)
		},
	}

	return &BreakerGenerator{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  log,
	}
}

// Generate calls the wrapped generator through the circuit breaker
func (b *BreakerGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, prompt, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", pkgerrors.NewGenerationUnavailableError(err)
		}
		return "", err
	}
	return result.(string), nil
}
