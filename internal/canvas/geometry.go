// Package canvas is the spatial engine behind the board: camera math,
// snap-assisted dragging, rubber-band selection, the connection graph,
// layout strategies and the minimap projection.
//
// Nothing here does I/O. A Session is built per loaded collection and all
// mutation happens synchronously inside its pointer and command methods.
package canvas

import (
	"math"

	"mockboard/internal/domain"
)

// Point is re-exported so callers of the engine rarely need the domain import.
type Point = domain.Point

const (
	NodeWidth  = 375.0
	NodeHeight = 770.0
	LabelStrip = 40.0 // screen title rendered under each node

	Gap           = 60.0
	GridSize      = 20.0
	SnapThreshold = 8.0 // screen units at zoom 1
	DragJitter    = 3.0 // screen units before a press becomes a drag

	MinZoom = 0.06
	MaxZoom = 1.2

	StaggerOffset  = 200.0
	CurveOffset    = 80.0
	FitPadding     = 80.0
	MinimapPadding = 200.0
)

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeSize is the fixed size shared by every screen.
var NodeSize = Size{Width: NodeWidth, Height: NodeHeight}

// Rect is an axis-aligned box with its origin at the top-left.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromPoints returns the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// NodeRect is the world box of a node placed at p.
func NodeRect(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, W: NodeWidth, H: NodeHeight}
}

// labeledRect includes the label strip below the node.
func labeledRect(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, W: NodeWidth, H: NodeHeight + LabelStrip}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Min() Point      { return Point{X: r.X, Y: r.Y} }
func (r Rect) Max() Point      { return Point{X: r.Right(), Y: r.Bottom()} }

// Intersects reports AABB overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Contains reports whether p lies inside r (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ContainsRect reports whether o lies fully inside r, allowing eps slack.
func (r Rect) ContainsRect(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	return Rect{
		X: minX,
		Y: minY,
		W: math.Max(r.Right(), o.Right()) - minX,
		H: math.Max(r.Bottom(), o.Bottom()) - minY,
	}
}

// Expand grows r by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// boundsOf unions rects; ok is false for an empty slice.
func boundsOf(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b, true
}

// quantize rounds v to the nearest multiple of step.
func quantize(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

func distance(p Point) float64 {
	return math.Hypot(p.X, p.Y)
}
