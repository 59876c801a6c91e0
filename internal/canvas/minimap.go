package canvas

import (
	"math"

	"mockboard/internal/domain"
)

// DefaultMinimapSize is the overview size used when none is configured.
var DefaultMinimapSize = Size{Width: 200, Height: 140}

// MinimapNode is a node rectangle in minimap space.
type MinimapNode struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

// Projection maps world space into a fixed-size minimap using one uniform
// scale with Origin (world) at the minimap's top-left.
type Projection struct {
	Scale    float64       `json:"scale"`
	Origin   Point         `json:"origin"`
	Size     Size          `json:"size"`
	Nodes    []MinimapNode `json:"nodes"`
	Viewport Rect          `json:"viewport"`
}

// ProjectMinimap projects every node and the camera's visible world rect.
// With no nodes the projection is empty and Scale is zero.
func ProjectMinimap(nodes []domain.ScreenNode, cam Camera, viewport, minimap Size) Projection {
	proj := Projection{Size: minimap, Nodes: []MinimapNode{}}
	if minimap.Width <= 0 || minimap.Height <= 0 {
		return proj
	}

	rects := make([]Rect, len(nodes))
	for i, n := range nodes {
		rects[i] = labeledRect(n.Position)
	}
	box, ok := boundsOf(rects)
	if !ok {
		return proj
	}
	box = box.Expand(MinimapPadding)

	proj.Scale = math.Min(minimap.Width/box.W, minimap.Height/box.H)
	proj.Origin = box.Min()
	for i, n := range nodes {
		proj.Nodes = append(proj.Nodes, MinimapNode{ID: n.ID, Rect: proj.toMinimap(NodeRect(rects[i].Min()))})
	}
	proj.Viewport = proj.toMinimap(cam.VisibleWorld(viewport))
	return proj
}

func (p Projection) toMinimap(r Rect) Rect {
	return Rect{
		X: (r.X - p.Origin.X) * p.Scale,
		Y: (r.Y - p.Origin.Y) * p.Scale,
		W: r.W * p.Scale,
		H: r.H * p.Scale,
	}
}

// ToWorld converts a minimap point back to world space.
func (p Projection) ToWorld(pt Point) (Point, bool) {
	if p.Scale <= 0 {
		return Point{}, false
	}
	return Point{X: pt.X/p.Scale + p.Origin.X, Y: pt.Y/p.Scale + p.Origin.Y}, true
}
