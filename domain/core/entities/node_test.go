package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
)

func timeMustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func makeContent(t *testing.T, text string) valueobjects.Content {
	t.Helper()
	content, err := valueobjects.NewContent(text)
	require.NoError(t, err)
	return content
}

func makeGeometry(t *testing.T, x, y float64) (valueobjects.Position, valueobjects.Size) {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	size, err := valueobjects.NewSize(320, 140)
	require.NoError(t, err)
	return pos, size
}

func TestNewRootQuestion(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)

	node, err := entities.NewRootQuestion("board-1", makeContent(t, "What is entropy?"), pos, size)

	require.NoError(t, err)
	assert.Equal(t, entities.VariantRootQuestion, node.Variant())
	assert.True(t, node.IsRoot())
	assert.Nil(t, node.ParentID())
	assert.Equal(t, node.ID(), node.RootID(), "a root question is its own root")
	assert.Len(t, node.GetUncommittedEvents(), 1)
}

func TestNewFollowupQuestion_InheritsRoot(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "What is entropy?"), pos, size)
	require.NoError(t, err)
	answer, err := entities.NewAnswer("board-1", root, makeContent(t, "A measure of disorder."), pos, size)
	require.NoError(t, err)

	followup, err := entities.NewFollowupQuestion("board-1", answer, makeContent(t, "Why does it increase?"), pos, size)

	require.NoError(t, err)
	assert.Equal(t, entities.VariantFollowupQuestion, followup.Variant())
	require.NotNil(t, followup.ParentID())
	assert.True(t, followup.ParentID().Equals(answer.ID()))
	assert.Equal(t, root.ID(), followup.RootID())
}

func TestNewFollowupQuestion_RejectsCrossBoardParent(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "Question"), pos, size)
	require.NoError(t, err)

	_, err = entities.NewFollowupQuestion("board-2", root, makeContent(t, "Follow-up"), pos, size)

	assert.Error(t, err)
}

func TestNewAnswer_VariantDependsOnQuestion(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "Root question"), pos, size)
	require.NoError(t, err)

	rootAnswer, err := entities.NewAnswer("board-1", root, makeContent(t, "Root answer"), pos, size)
	require.NoError(t, err)
	assert.Equal(t, entities.VariantAIAnswer, rootAnswer.Variant())

	followup, err := entities.NewFollowupQuestion("board-1", rootAnswer, makeContent(t, "Follow-up"), pos, size)
	require.NoError(t, err)

	followupAnswer, err := entities.NewAnswer("board-1", followup, makeContent(t, "Deeper answer"), pos, size)
	require.NoError(t, err)
	assert.Equal(t, entities.VariantFollowupAnswer, followupAnswer.Variant())
	assert.Equal(t, root.ID(), followupAnswer.RootID())
}

func TestNewAnswer_RejectsAnswerParent(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "Question"), pos, size)
	require.NoError(t, err)
	answer, err := entities.NewAnswer("board-1", root, makeContent(t, "Answer"), pos, size)
	require.NoError(t, err)

	_, err = entities.NewAnswer("board-1", answer, makeContent(t, "Answer to answer"), pos, size)

	assert.Error(t, err)
}

func TestNode_MoveTo(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	node, err := entities.NewRootQuestion("board-1", makeContent(t, "Question"), pos, size)
	require.NoError(t, err)
	node.MarkEventsAsCommitted()

	newPos, err := valueobjects.NewPosition(250, -30)
	require.NoError(t, err)
	require.NoError(t, node.MoveTo(newPos))

	assert.Equal(t, newPos, node.Position())
	assert.Len(t, node.GetUncommittedEvents(), 1)

	// Moving to the same position is a no-op
	require.NoError(t, node.MoveTo(newPos))
	assert.Len(t, node.GetUncommittedEvents(), 1)
}

func TestNode_UpdateContent(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	node, err := entities.NewRootQuestion("board-1", makeContent(t, "Question"), pos, size)
	require.NoError(t, err)

	require.NoError(t, node.UpdateContent(makeContent(t, "Refined question")))

	assert.Equal(t, "Refined question", node.Content().Text())
	assert.Equal(t, 2, node.Version())
}

func TestNode_Reparent_PromoteToRoot(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "Root"), pos, size)
	require.NoError(t, err)
	followup, err := entities.NewFollowupQuestion("board-1", root, makeContent(t, "Follow-up"), pos, size)
	require.NoError(t, err)

	require.NoError(t, followup.Reparent(nil, followup.ID()))

	assert.Equal(t, entities.VariantRootQuestion, followup.Variant())
	assert.True(t, followup.IsRoot())
	assert.Equal(t, followup.ID(), followup.RootID())
}

func TestNode_Reparent_RejectsAnswer(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	root, err := entities.NewRootQuestion("board-1", makeContent(t, "Root"), pos, size)
	require.NoError(t, err)
	answer, err := entities.NewAnswer("board-1", root, makeContent(t, "Answer"), pos, size)
	require.NoError(t, err)

	err = answer.Reparent(nil, answer.ID())

	assert.Error(t, err)
}

func TestReconstructNode_DefaultsRootToSelf(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)
	id := valueobjects.NewNodeID()

	node, err := entities.ReconstructNode(
		id, "board-1", entities.VariantRootQuestion,
		makeContent(t, "Question"), valueobjects.NodeID{}, nil,
		pos, size,
		timeMustParse(t, "2026-01-02T10:00:00Z"), timeMustParse(t, "2026-01-02T10:00:00Z"),
	)

	require.NoError(t, err)
	assert.Equal(t, id, node.RootID())
}

func TestReconstructNode_RejectsOrphanFollowup(t *testing.T) {
	pos, size := makeGeometry(t, 100, 100)

	_, err := entities.ReconstructNode(
		valueobjects.NewNodeID(), "board-1", entities.VariantFollowupQuestion,
		makeContent(t, "Question"), valueobjects.NodeID{}, nil,
		pos, size,
		timeMustParse(t, "2026-01-02T10:00:00Z"), timeMustParse(t, "2026-01-02T10:00:00Z"),
	)

	assert.Error(t, err)
}
