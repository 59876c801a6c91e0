package canvas

import "math"

// wheelSensitivity converts wheel delta units into an exponential zoom step.
const wheelSensitivity = 0.0015

// Camera maps world space to screen space: screen = world*Zoom + Pan.
type Camera struct {
	Pan  Point   `json:"pan"`
	Zoom float64 `json:"zoom"`
}

// NewCamera returns the identity camera.
func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// ClampZoom forces z into [MinZoom, MaxZoom]. Non-positive and NaN values
// fall back to MinZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Normalized returns c with its zoom clamped.
func (c Camera) Normalized() Camera {
	c.Zoom = ClampZoom(c.Zoom)
	return c
}

func (c Camera) ScreenToWorld(p Point) Point {
	z := ClampZoom(c.Zoom)
	return Point{X: (p.X - c.Pan.X) / z, Y: (p.Y - c.Pan.Y) / z}
}

func (c Camera) WorldToScreen(p Point) Point {
	z := ClampZoom(c.Zoom)
	return Point{X: p.X*z + c.Pan.X, Y: p.Y*z + c.Pan.Y}
}

// RectToWorld transforms a screen rectangle into world space.
func (c Camera) RectToWorld(r Rect) Rect {
	return RectFromPoints(c.ScreenToWorld(r.Min()), c.ScreenToWorld(r.Max()))
}

// RectToScreen transforms a world rectangle into screen space.
func (c Camera) RectToScreen(r Rect) Rect {
	return RectFromPoints(c.WorldToScreen(r.Min()), c.WorldToScreen(r.Max()))
}

// VisibleWorld is the world rectangle currently shown in a viewport.
func (c Camera) VisibleWorld(viewport Size) Rect {
	return c.RectToWorld(Rect{W: viewport.Width, H: viewport.Height})
}

// PanBy shifts the camera by a screen-space delta. Pan is independent of zoom.
func (c *Camera) PanBy(delta Point) {
	c.Pan = c.Pan.Add(delta)
}

// ZoomAt scales zoom by factor while keeping the world point under p fixed.
func (c *Camera) ZoomAt(p Point, factor float64) {
	old := ClampZoom(c.Zoom)
	next := ClampZoom(old * factor)
	ratio := next / old
	c.Pan = Point{
		X: p.X - (p.X-c.Pan.X)*ratio,
		Y: p.Y - (p.Y-c.Pan.Y)*ratio,
	}
	c.Zoom = next
}

// SetZoom sets an absolute zoom, anchored at the viewport centre.
func (c *Camera) SetZoom(z float64, viewport Size) {
	old := ClampZoom(c.Zoom)
	center := Point{X: viewport.Width / 2, Y: viewport.Height / 2}
	c.ZoomAt(center, ClampZoom(z)/old)
}

// CenterOn pans so that world point w sits in the middle of the viewport.
func (c *Camera) CenterOn(w Point, viewport Size) {
	z := ClampZoom(c.Zoom)
	c.Zoom = z
	c.Pan = Point{
		X: viewport.Width/2 - w.X*z,
		Y: viewport.Height/2 - w.Y*z,
	}
}

// WheelFactor converts a wheel deltaY into a multiplicative zoom factor.
// Scrolling up (negative delta) zooms in.
func WheelFactor(deltaY float64) float64 {
	return math.Exp(-deltaY * wheelSensitivity)
}

// FitToContent frames every node (label strip included) in the viewport.
// ok is false when there is nothing to frame or the viewport is empty.
func FitToContent(nodes []Point, viewport Size, padding float64) (Camera, bool) {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return Camera{}, false
	}
	rects := make([]Rect, len(nodes))
	for i, p := range nodes {
		rects[i] = labeledRect(p)
	}
	box, ok := boundsOf(rects)
	if !ok {
		return Camera{}, false
	}
	box = box.Expand(padding)

	zoom := math.Min(viewport.Width/box.W, viewport.Height/box.H)
	zoom = ClampZoom(math.Min(zoom, 1))

	return Camera{
		Zoom: zoom,
		Pan: Point{
			X: (viewport.Width-box.W*zoom)/2 - box.X*zoom,
			Y: (viewport.Height-box.H*zoom)/2 - box.Y*zoom,
		},
	}, true
}
