package services

import (
	"math"

	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
)

// LayoutEngine computes deterministic canvas placement for new nodes and
// viewport transforms. Trees read left to right, root at the left, with
// siblings stacked vertically. All computations are pure; the engine never
// moves existing nodes.
type LayoutEngine struct {
	cfg *config.DomainConfig
}

// NewLayoutEngine creates a layout engine
func NewLayoutEngine(cfg *config.DomainConfig) *LayoutEngine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &LayoutEngine{cfg: cfg}
}

// PositionFollowup places a new child one column right of its parent,
// below the lowest existing sibling. Greedy and non-backtracking: placement
// ignores overlaps introduced by manual drags. A missing parent yields the
// fallback position so a follow-up is always placeable.
func (e *LayoutEngine) PositionFollowup(tree *aggregates.Tree, parentID valueobjects.NodeID) valueobjects.Position {
	parent, err := tree.FindNode(parentID)
	if err != nil {
		return valueobjects.Position{X: e.cfg.FallbackX, Y: e.cfg.FallbackY}
	}

	x := parent.Position().X + parent.Size().Width + e.cfg.HorizontalGap
	y := parent.Position().Y

	siblings := tree.ChildrenOf(parentID)
	if len(siblings) > 0 {
		lowest := siblings[0]
		for _, sibling := range siblings[1:] {
			if sibling.Position().Y > lowest.Position().Y {
				lowest = sibling
			}
		}
		y = lowest.Position().Y + lowest.Size().Height + e.cfg.VerticalGap
	}

	return valueobjects.Position{X: x, Y: y}
}

// PositionNewRoot places a new root question in the shared root column,
// below the lowest existing root.
func (e *LayoutEngine) PositionNewRoot(tree *aggregates.Tree) valueobjects.Position {
	roots := tree.Roots()
	if len(roots) == 0 {
		return valueobjects.Position{X: e.cfg.RootColumnX, Y: e.cfg.FallbackY}
	}

	maxBottom := math.Inf(-1)
	for _, root := range roots {
		bottom := root.Position().Y + root.Size().Height
		if bottom > maxBottom {
			maxBottom = bottom
		}
	}

	return valueobjects.Position{X: e.cfg.RootColumnX, Y: maxBottom + e.cfg.RootGap}
}

// FitToViewport computes the transform that shows every node at once: zoom
// chosen so the content bounding box fits inside the padded viewport, offset
// chosen so the content center lands on the viewport center. An empty node
// set yields the identity transform rather than dividing by zero.
func (e *LayoutEngine) FitToViewport(nodes []*entities.Node, viewportWidth, viewportHeight, padding float64) valueobjects.Transform {
	if len(nodes) == 0 || viewportWidth <= 0 || viewportHeight <= 0 {
		return valueobjects.Transform{Zoom: 1.0, Offset: valueobjects.Position{}}
	}

	bounds := nodes[0].Rect()
	for _, node := range nodes[1:] {
		bounds = bounds.Union(node.Rect())
	}

	zoom := 1.0
	if bounds.Width() > 0 && bounds.Height() > 0 {
		zoomX := (viewportWidth - 2*padding) / bounds.Width()
		zoomY := (viewportHeight - 2*padding) / bounds.Height()
		zoom = math.Min(zoomX, zoomY)
	}
	zoom = clamp(zoom, e.cfg.FitZoomMin, e.cfg.FitZoomMax)

	center := bounds.Center()
	offset := valueobjects.Position{
		X: viewportWidth/2 - center.X*zoom,
		Y: viewportHeight/2 - center.Y*zoom,
	}

	return valueobjects.Transform{Zoom: zoom, Offset: offset}
}

// ZoomAtPointer scales the zoom by the wheel delta and recomputes the offset
// so the world point under the pointer stays under the pointer.
func (e *LayoutEngine) ZoomAtPointer(current valueobjects.Transform, pointer valueobjects.Position, wheelDelta float64) valueobjects.Transform {
	factor := math.Pow(e.cfg.ZoomStepBase, -wheelDelta/100)
	newZoom := clamp(current.Zoom*factor, e.cfg.WheelZoomMin, e.cfg.WheelZoomMax)
	if newZoom == current.Zoom {
		return current
	}

	world := current.ToWorld(pointer)
	offset := valueobjects.Position{
		X: pointer.X - world.X*newZoom,
		Y: pointer.Y - world.Y*newZoom,
	}

	return valueobjects.Transform{Zoom: newZoom, Offset: offset}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
