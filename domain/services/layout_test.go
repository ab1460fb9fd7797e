package services_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/services"
)

const testBoard = "board-1"

type canvasFixture struct {
	t    *testing.T
	cfg  *config.DomainConfig
	tree *aggregates.Tree
}

func newCanvasFixture(t *testing.T) *canvasFixture {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	return &canvasFixture{t: t, cfg: cfg, tree: aggregates.NewTree(testBoard, cfg)}
}

func (f *canvasFixture) content(text string) valueobjects.Content {
	f.t.Helper()
	content, err := valueobjects.NewContent(text)
	require.NoError(f.t, err)
	return content
}

func (f *canvasFixture) size() valueobjects.Size {
	f.t.Helper()
	size, err := valueobjects.NewSize(f.cfg.DefaultNodeWidth, f.cfg.DefaultNodeHeight)
	require.NoError(f.t, err)
	return size
}

func (f *canvasFixture) addRootAt(text string, pos valueobjects.Position) *entities.Node {
	f.t.Helper()
	node, err := entities.NewRootQuestion(testBoard, f.content(text), pos, f.size())
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func (f *canvasFixture) addFollowupAt(parent *entities.Node, text string, pos valueobjects.Position) *entities.Node {
	f.t.Helper()
	node, err := entities.NewFollowupQuestion(testBoard, parent, f.content(text), pos, f.size())
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func (f *canvasFixture) addAnswerAt(question *entities.Node, text string, pos valueobjects.Position) *entities.Node {
	f.t.Helper()
	node, err := entities.NewAnswer(testBoard, question, f.content(text), pos, f.size())
	require.NoError(f.t, err)
	require.NoError(f.t, f.tree.AddNode(node))
	return node
}

func TestPositionFollowup_FirstChildAlignsWithParent(t *testing.T) {
	f := newCanvasFixture(t)
	parent := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 250})
	engine := services.NewLayoutEngine(f.cfg)

	pos := engine.PositionFollowup(f.tree, parent.ID())

	assert.Equal(t, 100+f.cfg.DefaultNodeWidth+f.cfg.HorizontalGap, pos.X)
	assert.Equal(t, 250.0, pos.Y)
}

func TestPositionFollowup_SiblingsStackWithoutOverlap(t *testing.T) {
	f := newCanvasFixture(t)
	parent := f.addRootAt("Root", valueobjects.Position{X: 100, Y: 100})
	engine := services.NewLayoutEngine(f.cfg)

	// Place siblings one after another the way successive creations would
	var placed []*entities.Node
	for i := 0; i < 5; i++ {
		pos := engine.PositionFollowup(f.tree, parent.ID())
		placed = append(placed, f.addFollowupAt(parent, "Branch", pos))
	}

	for i := 1; i < len(placed); i++ {
		prev, curr := placed[i-1], placed[i]
		assert.GreaterOrEqual(t,
			curr.Position().Y,
			prev.Position().Y+prev.Size().Height+f.cfg.VerticalGap,
			"sibling %d overlaps its predecessor", i)
		assert.Equal(t, prev.Position().X, curr.Position().X, "siblings share a column")
	}
}

func TestPositionFollowup_MissingParentFallsBack(t *testing.T) {
	f := newCanvasFixture(t)
	engine := services.NewLayoutEngine(f.cfg)

	pos := engine.PositionFollowup(f.tree, valueobjects.NewNodeID())

	assert.Equal(t, valueobjects.Position{X: f.cfg.FallbackX, Y: f.cfg.FallbackY}, pos)
}

func TestPositionNewRoot_Stacking(t *testing.T) {
	f := newCanvasFixture(t)
	engine := services.NewLayoutEngine(f.cfg)

	var ys []float64
	for i := 0; i < 4; i++ {
		pos := engine.PositionNewRoot(f.tree)
		assert.Equal(t, f.cfg.RootColumnX, pos.X, "all roots share the root column")
		ys = append(ys, pos.Y)
		f.addRootAt("Root", pos)
	}

	for i := 1; i < len(ys); i++ {
		assert.Greater(t, ys[i], ys[i-1]+f.cfg.DefaultNodeHeight, "roots must not overlap")
	}
}

func TestFitToViewport_EmptySetIsFinite(t *testing.T) {
	f := newCanvasFixture(t)
	engine := services.NewLayoutEngine(f.cfg)

	transform := engine.FitToViewport(nil, 1280, 720, 50)

	assert.Equal(t, 1.0, transform.Zoom)
	assert.False(t, math.IsNaN(transform.Offset.X) || math.IsInf(transform.Offset.X, 0))
	assert.False(t, math.IsNaN(transform.Offset.Y) || math.IsInf(transform.Offset.Y, 0))
}

func TestFitToViewport_SingleNodeWithinClamp(t *testing.T) {
	f := newCanvasFixture(t)
	node := f.addRootAt("Root", valueobjects.Position{X: 400, Y: 300})
	engine := services.NewLayoutEngine(f.cfg)

	transform := engine.FitToViewport([]*entities.Node{node}, 1280, 720, 50)

	assert.GreaterOrEqual(t, transform.Zoom, f.cfg.FitZoomMin)
	assert.LessOrEqual(t, transform.Zoom, f.cfg.FitZoomMax)

	// The node's center maps to the viewport center
	screenCenter := transform.ToScreen(node.Rect().Center())
	assert.InDelta(t, 640, screenCenter.X, 1e-9)
	assert.InDelta(t, 360, screenCenter.Y, 1e-9)
}

func TestFitToViewport_ContentCenteredAtComputedZoom(t *testing.T) {
	f := newCanvasFixture(t)
	a := f.addRootAt("A", valueobjects.Position{X: 0, Y: 0})
	b := f.addRootAt("B", valueobjects.Position{X: 3000, Y: 2000})
	engine := services.NewLayoutEngine(f.cfg)

	transform := engine.FitToViewport([]*entities.Node{a, b}, 1280, 720, 50)

	bounds := a.Rect().Union(b.Rect())
	assert.LessOrEqual(t, bounds.Width()*transform.Zoom, 1280-2*50+1e-9)
	assert.LessOrEqual(t, bounds.Height()*transform.Zoom, 720-2*50+1e-9)

	screenCenter := transform.ToScreen(bounds.Center())
	assert.InDelta(t, 640, screenCenter.X, 1e-9)
	assert.InDelta(t, 360, screenCenter.Y, 1e-9)
}

func TestZoomAtPointer_AnchorsWorldPoint(t *testing.T) {
	f := newCanvasFixture(t)
	engine := services.NewLayoutEngine(f.cfg)
	current := valueobjects.Transform{Zoom: 1.0, Offset: valueobjects.Position{X: 40, Y: -20}}
	pointer := valueobjects.Position{X: 500, Y: 320}

	oldWorld := current.ToWorld(pointer)
	next := engine.ZoomAtPointer(current, pointer, -240)
	newWorld := next.ToWorld(pointer)

	assert.NotEqual(t, current.Zoom, next.Zoom)
	assert.InDelta(t, oldWorld.X, newWorld.X, 1e-9)
	assert.InDelta(t, oldWorld.Y, newWorld.Y, 1e-9)
}

func TestZoomAtPointer_ClampsRange(t *testing.T) {
	f := newCanvasFixture(t)
	engine := services.NewLayoutEngine(f.cfg)
	current := valueobjects.Transform{Zoom: 1.0, Offset: valueobjects.Position{}}
	pointer := valueobjects.Position{X: 100, Y: 100}

	zoomedOut := engine.ZoomAtPointer(current, pointer, 1e6)
	assert.Equal(t, f.cfg.WheelZoomMin, zoomedOut.Zoom)

	zoomedIn := engine.ZoomAtPointer(current, pointer, -1e6)
	assert.Equal(t, f.cfg.WheelZoomMax, zoomedIn.Zoom)
}
