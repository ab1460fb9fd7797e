package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/services"
	pkgerrors "ideaflow-backend/pkg/errors"
)

func (f *canvasFixture) connect(source, target *entities.Node) *entities.Edge {
	f.t.Helper()
	edge, err := entities.NewEdge(testBoard, source.ID(), target.ID())
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddEdge(edge))
	return edge
}

func TestPlanDeletion_RootWithFollowups(t *testing.T) {
	f := newCanvasFixture(t)
	resolver := services.NewDeletionResolver()

	root := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 100})
	answer := f.addAnswerAt(root, "Answer", valueobjects.Position{X: 520, Y: 100})
	f1 := f.addFollowupAt(answer, "First", valueobjects.Position{X: 940, Y: 100})
	f2 := f.addFollowupAt(answer, "Second", valueobjects.Position{X: 940, Y: 280})
	f.connect(root, answer)
	f.connect(answer, f1)
	f.connect(answer, f2)

	plan, err := resolver.PlanDeletion(f.tree, root.ID())

	require.NoError(t, err)
	assert.ElementsMatch(t, []valueobjects.NodeID{root.ID(), answer.ID()}, plan.NodesToDelete)

	require.Len(t, plan.Reparentings, 2)
	for _, rep := range plan.Reparentings {
		assert.Nil(t, rep.NewParentID, "children of a deleted root become roots themselves")
		assert.Equal(t, rep.ChildID, rep.NewRootID)
	}
	childIDs := []valueobjects.NodeID{plan.Reparentings[0].ChildID, plan.Reparentings[1].ChildID}
	assert.ElementsMatch(t, []valueobjects.NodeID{f1.ID(), f2.ID()}, childIDs)

	// Every edge touched the deleted pair, and no replacements are needed
	assert.Len(t, plan.EdgesToDelete, 3)
	assert.Empty(t, plan.EdgesToCreate)
}

func TestPlanDeletion_MidTreeQuestionPromotesChild(t *testing.T) {
	f := newCanvasFixture(t)
	resolver := services.NewDeletionResolver()

	root := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 100})
	question := f.addFollowupAt(root, "Mid question", valueobjects.Position{X: 520, Y: 100})
	answer := f.addAnswerAt(question, "Mid answer", valueobjects.Position{X: 940, Y: 100})
	followup := f.addFollowupAt(answer, "Leaf", valueobjects.Position{X: 1360, Y: 100})
	f.connect(root, question)
	f.connect(question, answer)
	f.connect(answer, followup)

	plan, err := resolver.PlanDeletion(f.tree, question.ID())

	require.NoError(t, err)
	assert.ElementsMatch(t, []valueobjects.NodeID{question.ID(), answer.ID()}, plan.NodesToDelete)

	require.Len(t, plan.Reparentings, 1)
	rep := plan.Reparentings[0]
	assert.Equal(t, followup.ID(), rep.ChildID)
	require.NotNil(t, rep.NewParentID)
	assert.True(t, rep.NewParentID.Equals(root.ID()), "child is promoted one level up")
	assert.Equal(t, root.ID(), rep.NewRootID)

	// The promoted child gets a fresh edge from its new parent
	require.Len(t, plan.EdgesToCreate, 1)
	assert.Equal(t, root.ID(), plan.EdgesToCreate[0].SourceID)
	assert.Equal(t, followup.ID(), plan.EdgesToCreate[0].TargetID)

	assert.Len(t, plan.EdgesToDelete, 3)
}

func TestPlanDeletion_UnansweredQuestionChildren(t *testing.T) {
	f := newCanvasFixture(t)
	resolver := services.NewDeletionResolver()

	root := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 100})
	question := f.addFollowupAt(root, "Unanswered", valueobjects.Position{X: 520, Y: 100})
	child := f.addFollowupAt(question, "Child", valueobjects.Position{X: 940, Y: 100})

	plan, err := resolver.PlanDeletion(f.tree, question.ID())

	require.NoError(t, err)
	assert.Equal(t, []valueobjects.NodeID{question.ID()}, plan.NodesToDelete)
	require.Len(t, plan.Reparentings, 1)
	assert.Equal(t, child.ID(), plan.Reparentings[0].ChildID)
	require.NotNil(t, plan.Reparentings[0].NewParentID)
	assert.True(t, plan.Reparentings[0].NewParentID.Equals(root.ID()))
}

func TestPlanDeletion_RejectsAnswerTarget(t *testing.T) {
	f := newCanvasFixture(t)
	resolver := services.NewDeletionResolver()

	root := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 100})
	answer := f.addAnswerAt(root, "Answer", valueobjects.Position{X: 520, Y: 100})

	_, err := resolver.PlanDeletion(f.tree, answer.ID())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPlanDeletion_MissingTarget(t *testing.T) {
	f := newCanvasFixture(t)
	resolver := services.NewDeletionResolver()

	_, err := resolver.PlanDeletion(f.tree, valueobjects.NewNodeID())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
