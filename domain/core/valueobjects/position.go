package valueobjects

import (
	"math"

	pkgerrors "ideaflow-backend/pkg/errors"
)

// Position is a point in canvas space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position, rejecting non-finite coordinates
func NewPosition(x, y float64) (Position, error) {
	if !isFinite(x) || !isFinite(y) {
		return Position{}, pkgerrors.NewValidationError("position coordinates must be finite")
	}
	return Position{X: x, Y: y}, nil
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size is the rendered extent of a node in canvas space
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a size, rejecting non-positive or non-finite dimensions
func NewSize(width, height float64) (Size, error) {
	if !isFinite(width) || !isFinite(height) || width <= 0 || height <= 0 {
		return Size{}, pkgerrors.NewValidationError("size dimensions must be positive and finite")
	}
	return Size{Width: width, Height: height}, nil
}

// Rect is an axis-aligned rectangle in canvas space
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// NewRect builds the rectangle covering a node at pos with the given size
func NewRect(pos Position, size Size) Rect {
	return Rect{
		MinX: pos.X,
		MinY: pos.Y,
		MaxX: pos.X + size.Width,
		MaxY: pos.Y + size.Height,
	}
}

// Union extends the rectangle to cover other
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Width returns the horizontal extent
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the rectangle's center point
func (r Rect) Center() Position {
	return Position{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Transform maps canvas (world) coordinates to screen coordinates:
// screen = world*Zoom + Offset.
type Transform struct {
	Zoom   float64  `json:"zoom"`
	Offset Position `json:"offset"`
}

// ToWorld converts a screen point to world coordinates
func (t Transform) ToWorld(screen Position) Position {
	return Position{
		X: (screen.X - t.Offset.X) / t.Zoom,
		Y: (screen.Y - t.Offset.Y) / t.Zoom,
	}
}

// ToScreen converts a world point to screen coordinates
func (t Transform) ToScreen(world Position) Position {
	return Position{
		X: world.X*t.Zoom + t.Offset.X,
		Y: world.Y*t.Zoom + t.Offset.Y,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
