package sagas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is one unit of work in a saga. Execute receives the output of the
// previous step; Compensate undoes the step's effects if a later step fails.
type Step struct {
	Name       string
	Execute    func(ctx context.Context, data interface{}) (interface{}, error)
	Compensate func(ctx context.Context, data interface{}) error
	MaxRetries int
	RetryDelay time.Duration
}

// State tracks where a saga is in its lifecycle
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateFailed       State = "FAILED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
)

// Saga runs a sequence of steps and unwinds completed ones on failure.
// Multi-write tree operations (deletion with reparenting, answer creation
// with its edge) go through sagas so a mid-sequence failure never leaves
// dangling references behind.
type Saga struct {
	id            string
	name          string
	steps         []Step
	compensations []func(ctx context.Context) error
	state         State
	logger        *zap.Logger
}

// NewSaga creates a saga with the given name
func NewSaga(name string, logger *zap.Logger) *Saga {
	return &Saga{
		id:     uuid.New().String(),
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// AddStep appends a step, returning the saga for chaining
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs all steps in order. On step failure, completed steps are
// compensated in reverse order and the step's error is returned.
func (s *Saga) Execute(ctx context.Context, initialData interface{}) (interface{}, error) {
	s.state = StateRunning
	s.logger.Debug("starting saga",
		zap.String("sagaID", s.id),
		zap.String("saga", s.name),
		zap.Int("steps", len(s.steps)),
	)

	data := initialData
	for _, step := range s.steps {
		result, err := s.executeWithRetry(ctx, step, data)
		if err != nil {
			s.state = StateFailed
			s.logger.Error("saga step failed",
				zap.String("sagaID", s.id),
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			s.compensate(ctx)
			return nil, fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}

		if step.Compensate != nil {
			compensate, stepData := step.Compensate, result
			s.compensations = append(s.compensations, func(ctx context.Context) error {
				return compensate(ctx, stepData)
			})
		}
		data = result
	}

	s.state = StateCompleted
	return data, nil
}

func (s *Saga) executeWithRetry(ctx context.Context, step Step, data interface{}) (interface{}, error) {
	attempts := step.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	delay := step.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := step.Execute(ctx, data)
		if err == nil {
			return result, nil
		}
		lastErr = err
		s.logger.Warn("saga step attempt failed",
			zap.String("sagaID", s.id),
			zap.String("step", step.Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

// compensate unwinds completed steps newest first. A failing compensation is
// logged and the rest still run; the caller reloads from the store either way.
func (s *Saga) compensate(ctx context.Context) {
	s.state = StateCompensating
	for i := len(s.compensations) - 1; i >= 0; i-- {
		if err := s.compensations[i](ctx); err != nil {
			s.logger.Error("saga compensation failed",
				zap.String("sagaID", s.id),
				zap.String("saga", s.name),
				zap.Int("step", i),
				zap.Error(err),
			)
		}
	}
	s.state = StateCompensated
}

// GetState returns the saga's current state
func (s *Saga) GetState() State {
	return s.state
}

// GetID returns the saga's unique id
func (s *Saga) GetID() string {
	return s.id
}
