package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/domain/core/entities"
	pkgerrors "ideaflow-backend/pkg/errors"
)

func TestDeleteNode_RootPromotesFollowupsToRoots(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root", 100, 100)
	answer := f.seedAnswer(root, "Answer")
	f1 := f.seedFollowup(answer, "First followup")
	f2 := f.seedFollowup(answer, "Second followup")

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  root.ID().String(),
		BoardID: f.board.ID(),
		UserID:  testUser,
	})

	require.NoError(t, err)

	// The root and its paired answer are gone, the followups survive as roots
	nodes := f.storedNodes()
	require.Len(t, nodes, 2)
	for _, node := range nodes {
		assert.True(t, node.IsRoot(), "orphaned followups become root questions")
		assert.Equal(t, entities.VariantRootQuestion, node.Variant())
		assert.Nil(t, node.ParentID())
		assert.Equal(t, node.ID(), node.RootID())
	}

	promoted := f.storedNode(f1.ID())
	assert.Equal(t, f1.Content().Text(), promoted.Content().Text())
	f.storedNode(f2.ID())

	// Every edge touched the deleted pair, and promoted roots need no connector
	assert.Empty(t, f.storedEdges())
}

func TestDeleteNode_MidTreeReparentsGrandchildOntoGrandparent(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root", 100, 100)
	question := f.seedFollowup(root, "Mid question")
	answer := f.seedAnswer(question, "Mid answer")
	leaf := f.seedFollowup(answer, "Leaf")

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  question.ID().String(),
		BoardID: f.board.ID(),
		UserID:  testUser,
	})

	require.NoError(t, err)

	nodes := f.storedNodes()
	require.Len(t, nodes, 2)

	survivor := f.storedNode(leaf.ID())
	require.NotNil(t, survivor.ParentID())
	assert.True(t, survivor.ParentID().Equals(root.ID()), "grandchild is promoted one level up")
	assert.Equal(t, root.ID(), survivor.RootID())
	assert.Equal(t, entities.VariantFollowupQuestion, survivor.Variant())

	// Stale edges are replaced by a single connector from the new parent
	edges := f.storedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, root.ID(), edges[0].SourceID)
	assert.Equal(t, leaf.ID(), edges[0].TargetID)
}

func TestDeleteNode_LeafQuestionLeavesRestIntact(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root", 100, 100)
	answer := f.seedAnswer(root, "Answer")
	leaf := f.seedFollowup(answer, "Leaf")

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  leaf.ID().String(),
		BoardID: f.board.ID(),
		UserID:  testUser,
	})

	require.NoError(t, err)
	assert.Len(t, f.storedNodes(), 2)

	edges := f.storedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, root.ID(), edges[0].SourceID)
	assert.Equal(t, answer.ID(), edges[0].TargetID)
}

func TestDeleteNode_RejectsAnswerTarget(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root", 100, 100)
	answer := f.seedAnswer(root, "Answer")

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  answer.ID().String(),
		BoardID: f.board.ID(),
		UserID:  testUser,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Len(t, f.storedNodes(), 2, "nothing was deleted")
	assert.Len(t, f.storedEdges(), 1)
}

func TestDeleteNode_RejectsForeignBoard(t *testing.T) {
	f := newBoardFixture(t)
	root := f.seedRoot("Root", 100, 100)

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  root.ID().String(),
		BoardID: f.board.ID(),
		UserID:  "someone-else",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Len(t, f.storedNodes(), 1)
}

func TestDeleteNode_MissingNode(t *testing.T) {
	f := newBoardFixture(t)
	f.seedRoot("Root", 100, 100)

	err := f.deleteHandler().Handle(context.Background(), commands.DeleteNodeCommand{
		NodeID:  "14a7a5bc-6dbb-44a3-b2e9-26ed119d6ae9",
		BoardID: f.board.ID(),
		UserID:  testUser,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
