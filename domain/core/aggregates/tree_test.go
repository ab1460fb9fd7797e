package aggregates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	pkgerrors "ideaflow-backend/pkg/errors"
)

const testBoard = "board-1"

type treeFixture struct {
	t    *testing.T
	tree *aggregates.Tree
}

func newTreeFixture(t *testing.T) *treeFixture {
	t.Helper()
	return &treeFixture{t: t, tree: aggregates.NewTree(testBoard, config.DefaultDomainConfig())}
}

func (f *treeFixture) content(text string) valueobjects.Content {
	f.t.Helper()
	content, err := valueobjects.NewContent(text)
	require.NoError(f.t, err)
	return content
}

func (f *treeFixture) geometry() (valueobjects.Position, valueobjects.Size) {
	f.t.Helper()
	pos, err := valueobjects.NewPosition(100, 100)
	require.NoError(f.t, err)
	size, err := valueobjects.NewSize(320, 140)
	require.NoError(f.t, err)
	return pos, size
}

func (f *treeFixture) addRoot(text string) *entities.Node {
	f.t.Helper()
	pos, size := f.geometry()
	node, err := entities.NewRootQuestion(testBoard, f.content(text), pos, size)
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func (f *treeFixture) addFollowup(parent *entities.Node, text string) *entities.Node {
	f.t.Helper()
	pos, size := f.geometry()
	node, err := entities.NewFollowupQuestion(testBoard, parent, f.content(text), pos, size)
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func (f *treeFixture) addAnswer(question *entities.Node, text string) *entities.Node {
	f.t.Helper()
	pos, size := f.geometry()
	node, err := entities.NewAnswer(testBoard, question, f.content(text), pos, size)
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func TestTree_AddNode_RejectsSecondAnswer(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Question")
	f.addAnswer(root, "First answer")

	pos, size := f.geometry()
	second, err := entities.NewAnswer(testBoard, root, f.content("Second answer"), pos, size)
	require.NoError(t, err)

	err = f.tree.AddNode(second)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestTree_AddNode_RejectsMissingParent(t *testing.T) {
	f := newTreeFixture(t)
	orphanParent := f.addRoot("Detached root")
	require.NoError(t, f.tree.RemoveNode(orphanParent.ID()))

	pos, size := f.geometry()
	node, err := entities.NewFollowupQuestion(testBoard, orphanParent, f.content("Follow-up"), pos, size)
	require.NoError(t, err)

	err = f.tree.AddNode(node)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestTree_CanAttachAnswer(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Question")

	assert.NoError(t, f.tree.CanAttachAnswer(root.ID()))

	answer := f.addAnswer(root, "Answer")

	assert.Error(t, f.tree.CanAttachAnswer(root.ID()), "answered question rejects another answer")
	assert.Error(t, f.tree.CanAttachAnswer(answer.ID()), "answers cannot be answered")
}

func TestTree_ChildrenOf_CreationOrder(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Question")
	answer := f.addAnswer(root, "Answer")
	first := f.addFollowup(answer, "First branch")
	second := f.addFollowup(answer, "Second branch")

	children := f.tree.ChildrenOf(answer.ID())

	require.Len(t, children, 2)
	assert.Equal(t, first.ID(), children[0].ID())
	assert.Equal(t, second.ID(), children[1].ID())
}

func TestTree_PathToRoot(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Root")
	answer := f.addAnswer(root, "Answer")
	followup := f.addFollowup(answer, "Follow-up")

	path, err := f.tree.PathToRoot(followup.ID())

	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, followup.ID(), path[0].ID())
	assert.Equal(t, answer.ID(), path[1].ID())
	assert.Equal(t, root.ID(), path[2].ID())
}

func TestTree_PathToRoot_HopBound(t *testing.T) {
	f := newTreeFixture(t)
	parent := f.addRoot("Root")
	var deepest *entities.Node = parent
	// Chain deeper than the traversal bound
	for i := 0; i <= config.DefaultDomainConfig().MaxTraversalHops; i++ {
		deepest = f.addFollowup(deepest, "Depth probe")
	}

	_, err := f.tree.PathToRoot(deepest.ID())

	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CORRUPT_TREE", appErr.Code)
}

func TestTree_Subtree(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Root")
	answer := f.addAnswer(root, "Answer")
	branch := f.addFollowup(answer, "Branch")
	branchAnswer := f.addAnswer(branch, "Branch answer")
	f.addRoot("Unrelated root")

	subtree, err := f.tree.Subtree(answer.ID())

	require.NoError(t, err)
	ids := make([]valueobjects.NodeID, 0, len(subtree))
	for _, node := range subtree {
		ids = append(ids, node.ID())
	}
	assert.Equal(t, []valueobjects.NodeID{answer.ID(), branch.ID(), branchAnswer.ID()}, ids)
}

func TestTree_SetNodeParent_PromotesAndRebasesDescendants(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Root")
	answer := f.addAnswer(root, "Answer")
	branch := f.addFollowup(answer, "Branch")
	branchAnswer := f.addAnswer(branch, "Branch answer")

	require.NoError(t, f.tree.SetNodeParent(branch.ID(), nil))

	assert.Equal(t, entities.VariantRootQuestion, branch.Variant())
	assert.Equal(t, branch.ID(), branch.RootID())
	assert.Equal(t, branch.ID(), branchAnswer.RootID(), "descendants follow the new root")
	require.NotNil(t, branchAnswer.ParentID())
	assert.True(t, branchAnswer.ParentID().Equals(branch.ID()), "descendant parents are unchanged")
}

func TestTree_SetNodeParent_MovesUnderNewParent(t *testing.T) {
	f := newTreeFixture(t)
	rootA := f.addRoot("Root A")
	answerA := f.addAnswer(rootA, "Answer A")
	rootB := f.addRoot("Root B")
	answerB := f.addAnswer(rootB, "Answer B")
	branch := f.addFollowup(answerB, "Branch")

	require.NoError(t, f.tree.SetNodeParent(branch.ID(), ptrOf(answerA.ID())))

	assert.Equal(t, entities.VariantFollowupQuestion, branch.Variant())
	require.NotNil(t, branch.ParentID())
	assert.True(t, branch.ParentID().Equals(answerA.ID()))
	assert.Equal(t, rootA.ID(), branch.RootID())
}

func TestLoadTree_RejectsDoubleAnswer(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Question")
	f.addAnswer(root, "First")

	pos, size := f.geometry()
	second, err := entities.NewAnswer(testBoard, root, f.content("Second"), pos, size)
	require.NoError(t, err)

	nodes := append(f.tree.Nodes(), second)
	_, err = aggregates.LoadTree(testBoard, config.DefaultDomainConfig(), nodes, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCorruptState(err))
}

func TestLoadTree_RoundTrip(t *testing.T) {
	f := newTreeFixture(t)
	root := f.addRoot("Question")
	answer := f.addAnswer(root, "Answer")
	f.addFollowup(answer, "Follow-up")

	loaded, err := aggregates.LoadTree(testBoard, config.DefaultDomainConfig(), f.tree.Nodes(), f.tree.Edges())

	require.NoError(t, err)
	assert.Equal(t, f.tree.Len(), loaded.Len())
	roots := loaded.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID(), roots[0].ID())
}

func ptrOf[T any](v T) *T { return &v }
