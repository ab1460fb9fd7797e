package handlers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/infrastructure/generation"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// gateGenerator blocks inside Generate until released, so tests can hold a
// generation open while issuing a second request for the same question.
type gateGenerator struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateGenerator() *gateGenerator {
	return &gateGenerator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gateGenerator) Generate(ctx context.Context, _ string, _ ports.GenerationOptions) (string, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return "A considered answer.", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGenerateAnswer_AttachesAIAnswerToRoot(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("How do we grow the community?", 100, 100)

	orch := f.orchestrator(&generation.StaticGenerator{Response: "Host a monthly open call."})
	answer, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.VariantAIAnswer, answer.Variant())
	assert.Equal(t, "Host a monthly open call.", answer.Content().Text())
	require.NotNil(t, answer.ParentID())
	assert.True(t, answer.ParentID().Equals(root.ID()))
	assert.Equal(t, root.ID(), answer.RootID())

	// The answer sits one column right of its question
	assert.Equal(t, root.Position().X+f.cfg.DefaultNodeWidth+f.cfg.HorizontalGap, answer.Position().X)

	assert.Len(t, f.storedNodes(), 2)
	edges := f.storedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, root.ID(), edges[0].SourceID)
	assert.Equal(t, answer.ID(), edges[0].TargetID)
}

func TestGenerateAnswer_FollowupQuestionGetsFollowupAnswer(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root question", 100, 100)
	answer := f.seedAnswer(root, "Root answer")
	followup := f.seedFollowup(answer, "And what about cost?")

	orch := f.orchestrator(&generation.StaticGenerator{Response: "Costs stay flat."})
	node, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: followup.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.VariantFollowupAnswer, node.Variant())
	assert.Equal(t, root.ID(), node.RootID(), "answers inherit the question's root")
}

func TestGenerateAnswer_RejectsAlreadyAnsweredQuestion(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Question", 100, 100)
	f.seedAnswer(root, "Existing answer")

	gen := &generation.StaticGenerator{Response: "unused"}
	orch := f.orchestrator(gen)
	_, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "ANSWER_EXISTS", pkgerrors.GetAppError(err).Code)
	assert.Equal(t, 0, gen.Calls(), "rejected before calling the model")
}

func TestGenerateAnswer_FailureLeavesNoOrphan(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Question", 100, 100)

	orch := f.orchestrator(&generation.StaticGenerator{
		Err: pkgerrors.NewGenerationUnavailableError(errors.New("connection refused")),
	})
	_, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnavailable(err))
	assert.Len(t, f.storedNodes(), 1, "no answer node survives a failed generation")
	assert.Empty(t, f.storedEdges())
}

func TestGenerateAnswer_ConcurrentSameQuestionConflicts(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Question", 100, 100)

	gen := newGateGenerator()
	orch := f.orchestrator(gen)
	cmd := commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.Handle(context.Background(), cmd)
		firstDone <- err
	}()

	select {
	case <-gen.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first generation never reached the model")
	}

	_, err := orch.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "GENERATION_IN_FLIGHT", pkgerrors.GetAppError(err).Code)

	close(gen.release)
	require.NoError(t, <-firstDone)

	// Exactly one answer made it onto the question
	assert.Len(t, f.storedNodes(), 2)
	assert.Len(t, f.storedEdges(), 1)
}

func TestGenerateAnswer_SequentialRequestsAfterCompletionConflictOnAnswer(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Question", 100, 100)

	orch := f.orchestrator(&generation.StaticGenerator{Response: "First answer"})
	cmd := commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     testUser,
	}

	_, err := orch.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = orch.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.Equal(t, "ANSWER_EXISTS", pkgerrors.GetAppError(err).Code)
}

func TestGenerateAnswer_RejectsForeignBoard(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Question", 100, 100)

	gen := &generation.StaticGenerator{Response: "unused"}
	orch := f.orchestrator(gen)
	_, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: root.ID().String(),
		BoardID:    f.board.ID(),
		UserID:     "someone-else",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Equal(t, 0, gen.Calls())
}

func TestGenerateAnswer_MissingQuestion(t *testing.T) {
	f := newBoardFixture(t)
	f.seedRoot("Question", 100, 100)

	orch := f.orchestrator(&generation.StaticGenerator{Response: "unused"})
	_, err := orch.Handle(context.Background(), commands.GenerateAnswerCommand{
		QuestionID: "14a7a5bc-6dbb-44a3-b2e9-26ed119d6ae9",
		BoardID:    f.board.ID(),
		UserID:     testUser,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
