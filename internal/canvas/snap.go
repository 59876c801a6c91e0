package canvas

import (
	"math"

	"mockboard/internal/domain"
)

// Axis names a snapping axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// GuideKind tells the renderer what kind of guide line to draw.
type GuideKind string

const (
	GuideEdge   GuideKind = "edge"
	GuideCenter GuideKind = "center"
	GuideGap    GuideKind = "gap"
	GuideGrid   GuideKind = "grid"
)

// Guide is a matched alignment line. For AxisX, Coord is a world x
// coordinate of a vertical line; for AxisY, a world y of a horizontal line.
type Guide struct {
	Axis   Axis      `json:"axis"`
	Coord  float64   `json:"coord"`
	Kind   GuideKind `json:"kind"`
	NodeID string    `json:"nodeId,omitempty"`
}

// SnapOptions controls ResolveSnap.
type SnapOptions struct {
	Align     bool    `json:"align"`     // edge, centre and gap snapping
	GridSnap  bool    `json:"gridSnap"`  // quantize axes that did not align
	GridSize  float64 `json:"gridSize"`  // world units
	Threshold float64 `json:"threshold"` // screen units, divided by Zoom
	Zoom      float64 `json:"zoom"`
}

// DefaultSnapOptions has alignment on and grid snapping off.
func DefaultSnapOptions() SnapOptions {
	return SnapOptions{
		Align:     true,
		GridSize:  GridSize,
		Threshold: SnapThreshold,
		Zoom:      1,
	}
}

// SnapResult is the corrected position plus the guides that fired.
type SnapResult struct {
	Position domain.Point `json:"position"`
	Guides   []Guide      `json:"guides,omitempty"`
}

// span is a node's extent along one axis.
type span struct {
	id string
	lo float64
}

// ResolveSnap corrects a candidate drag position for node movingID against
// nodes. Each axis is resolved independently; for every other node, in input
// order, edge alignment is tried before gap adjacency and the first match
// wins. Axes with no match are quantized to the grid when GridSnap is set.
func ResolveSnap(movingID string, candidate domain.Point, nodes []domain.ScreenNode, opts SnapOptions) SnapResult {
	res := SnapResult{Position: candidate}
	th := opts.Threshold / ClampZoom(opts.Zoom)

	var xs, ys []span
	if opts.Align {
		xs = make([]span, 0, len(nodes))
		ys = make([]span, 0, len(nodes))
		for _, n := range nodes {
			if n.ID == movingID {
				continue
			}
			xs = append(xs, span{id: n.ID, lo: n.Position.X})
			ys = append(ys, span{id: n.ID, lo: n.Position.Y})
		}
	}

	if x, g, ok := snapAxis(candidate.X, NodeWidth, xs, th); ok {
		g.Axis = AxisX
		res.Position.X = x
		res.Guides = append(res.Guides, g)
	} else if opts.GridSnap && opts.GridSize > 0 {
		res.Position.X = quantize(candidate.X, opts.GridSize)
	}

	if y, g, ok := snapAxis(candidate.Y, NodeHeight, ys, th); ok {
		g.Axis = AxisY
		res.Position.Y = y
		res.Guides = append(res.Guides, g)
	} else if opts.GridSnap && opts.GridSize > 0 {
		res.Position.Y = quantize(candidate.Y, opts.GridSize)
	}

	return res
}

// snapAxis resolves one axis for a moving extent [pos, pos+size).
func snapAxis(pos, size float64, others []span, th float64) (float64, Guide, bool) {
	lo, hi, mid := pos, pos+size, pos+size/2
	for _, o := range others {
		// every node has the same size, so the other extent uses it too
		oLo, oHi, oMid := o.lo, o.lo+size, o.lo+size/2
		switch {
		case near(lo, oLo, th):
			return oLo, Guide{Coord: oLo, Kind: GuideEdge, NodeID: o.id}, true
		case near(hi, oHi, th):
			return oHi - size, Guide{Coord: oHi, Kind: GuideEdge, NodeID: o.id}, true
		case near(lo, oHi, th):
			return oHi, Guide{Coord: oHi, Kind: GuideEdge, NodeID: o.id}, true
		case near(hi, oLo, th):
			return oLo - size, Guide{Coord: oLo, Kind: GuideEdge, NodeID: o.id}, true
		case near(mid, oMid, th):
			return oMid - size/2, Guide{Coord: oMid, Kind: GuideCenter, NodeID: o.id}, true
		case near(lo, oHi+Gap, th):
			return oHi + Gap, Guide{Coord: oHi + Gap, Kind: GuideGap, NodeID: o.id}, true
		case near(hi, oLo-Gap, th):
			return oLo - Gap - size, Guide{Coord: oLo - Gap, Kind: GuideGap, NodeID: o.id}, true
		}
	}
	return pos, Guide{}, false
}

func near(a, b, th float64) bool {
	return math.Abs(a-b) <= th
}
