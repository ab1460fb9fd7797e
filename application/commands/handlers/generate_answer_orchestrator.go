package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/sagas"
	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/events"
	domainservices "ideaflow-backend/domain/services"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/observability"
)

// GenerateAnswerOrchestrator runs the full answer-generation flow for a
// question node: assemble the bounded context, call the model collaborator,
// then persist the answer node and its edge together. The generator call is
// the only suspension point; context assembly and layout are pure.
//
// At most one generation may be in flight per question. Concurrent requests
// for different questions proceed independently; a second request for the
// same question is rejected so two answers can never race onto one question.
type GenerateAnswerOrchestrator struct {
	loader    *TreeLoader
	nodeRepo  ports.NodeRepository
	edgeRepo  ports.EdgeRepository
	generator ports.TextGenerator
	assembler *domainservices.ContextAssembler
	layout    *domainservices.LayoutEngine
	eventPub  ports.EventPublisher
	metrics   *observability.Metrics
	cfg       *config.DomainConfig
	logger    *zap.Logger

	genOpts ports.GenerationOptions
	timeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGenerateAnswerOrchestrator creates a new orchestrator instance
func NewGenerateAnswerOrchestrator(
	loader *TreeLoader,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	generator ports.TextGenerator,
	assembler *domainservices.ContextAssembler,
	layout *domainservices.LayoutEngine,
	eventPub ports.EventPublisher,
	metrics *observability.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
	genOpts ports.GenerationOptions,
	timeout time.Duration,
) *GenerateAnswerOrchestrator {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &GenerateAnswerOrchestrator{
		loader:    loader,
		nodeRepo:  nodeRepo,
		edgeRepo:  edgeRepo,
		generator: generator,
		assembler: assembler,
		layout:    layout,
		eventPub:  eventPub,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		genOpts:   genOpts,
		timeout:   timeout,
		inFlight:  make(map[string]struct{}),
	}
}

// Handle executes the generate answer command
func (o *GenerateAnswerOrchestrator) Handle(ctx context.Context, cmd commands.GenerateAnswerCommand) (*entities.Node, error) {
	if !o.acquire(cmd.QuestionID) {
		return nil, pkgerrors.NewGenerationInFlightError(cmd.QuestionID)
	}
	defer o.release(cmd.QuestionID)

	o.metrics.GenerationInFlight.Inc()
	defer o.metrics.GenerationInFlight.Dec()
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	answer, err := o.generate(ctx, cmd)
	o.metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		o.metrics.GenerationTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	o.metrics.GenerationTotal.WithLabelValues("success").Inc()
	return answer, nil
}

func (o *GenerateAnswerOrchestrator) generate(ctx context.Context, cmd commands.GenerateAnswerCommand) (*entities.Node, error) {
	_, tree, err := o.loader.LoadForUser(ctx, cmd.BoardID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	questionID, err := valueobjects.NewNodeIDFromString(cmd.QuestionID)
	if err != nil {
		return nil, err
	}
	question, err := tree.FindNode(questionID)
	if err != nil {
		return nil, err
	}
	if err := tree.CanAttachAnswer(questionID); err != nil {
		return nil, err
	}

	// Composing: bounded context from the question's ancestry
	prompt := o.assembler.BuildContext(tree, question.ParentID(), question.RootID(), question.Content().Text())

	// Requesting: the sole suspension point. The generator is already
	// wrapped with retry and breaker policies by the infrastructure layer.
	text, err := o.generator.Generate(ctx, prompt, o.genOpts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = pkgerrors.NewGenerationTimeoutError(err)
		}
		o.logger.Warn("generation failed",
			zap.String("boardID", cmd.BoardID),
			zap.String("questionID", cmd.QuestionID),
			zap.Error(err),
		)
		return nil, err
	}

	content, err := valueobjects.NewContentWithConfig(text, o.cfg)
	if err != nil {
		return nil, pkgerrors.NewGenerationMalformedError(err)
	}

	pos := o.layout.PositionFollowup(tree, questionID)
	position, err := valueobjects.NewPosition(pos.X, pos.Y)
	if err != nil {
		return nil, err
	}
	size, err := valueobjects.NewSize(o.cfg.DefaultNodeWidth, o.cfg.DefaultNodeHeight)
	if err != nil {
		return nil, err
	}

	answer, err := entities.NewAnswer(cmd.BoardID, question, content, position, size)
	if err != nil {
		return nil, err
	}
	if err := tree.AddNode(answer); err != nil {
		return nil, err
	}

	// Succeeded: persist node and edge together; a failed edge write removes
	// the node again so no orphan survives a partial failure.
	saga := sagas.NewSaga("attach-answer", o.logger)
	saga.AddStep(sagas.Step{
		Name: "save-answer-node",
		Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
			return nil, o.nodeRepo.Save(ctx, answer)
		},
		Compensate: func(ctx context.Context, _ interface{}) error {
			return o.nodeRepo.Delete(ctx, cmd.BoardID, answer.ID())
		},
	})
	saga.AddStep(sagas.Step{
		Name: "save-answer-edge",
		Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
			edge, err := entities.NewEdge(cmd.BoardID, questionID, answer.ID())
			if err != nil {
				return nil, err
			}
			return edge, o.edgeRepo.Save(ctx, edge)
		},
	})
	if _, err := saga.Execute(ctx, nil); err != nil {
		return nil, err
	}

	o.metrics.NodesCreatedTotal.WithLabelValues(string(answer.Variant())).Inc()

	event := events.NewAnswerGenerated(questionID, answer.ID(), cmd.BoardID, time.Now())
	if err := o.eventPub.Publish(ctx, event); err != nil {
		o.logger.Warn("failed to publish answer event",
			zap.String("answerID", answer.ID().String()), zap.Error(err))
	}
	answer.MarkEventsAsCommitted()

	o.logger.Info("answer generated",
		zap.String("boardID", cmd.BoardID),
		zap.String("questionID", cmd.QuestionID),
		zap.String("answerID", answer.ID().String()),
		zap.String("variant", string(answer.Variant())),
	)
	return answer, nil
}

func (o *GenerateAnswerOrchestrator) acquire(questionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[questionID]; busy {
		return false
	}
	o.inFlight[questionID] = struct{}{}
	return true
}

func (o *GenerateAnswerOrchestrator) release(questionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, questionID)
}
