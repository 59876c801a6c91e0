package canvas

import (
	"fmt"
	"math"
	"strings"
)

// Layout strategy names accepted by LayoutEngine.Apply.
const (
	LayoutTight = "tight"
	LayoutGrid  = "grid"
	LayoutFlow  = "flow"
)

var layoutAliases = map[string]string{
	"linear":    LayoutTight,
	"row":       LayoutTight,
	"staggered": LayoutFlow,
}

// Layouts lists the canonical strategy names.
var Layouts = []string{LayoutTight, LayoutGrid, LayoutFlow}

// maxSlotCols bounds the free-slot scan used for newly registered screens.
const maxSlotCols = 8

// LayoutEngine computes whole position assignments for an ordered set of
// node ids. Every strategy is a pure function of the id sequence.
type LayoutEngine struct {
	gap     float64
	maxCols int
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{gap: Gap, maxCols: maxSlotCols}
}

// Apply runs the named strategy. An unknown name is a caller bug and
// returns ErrUnknownLayout.
func (le *LayoutEngine) Apply(strategy string, ids []string) (map[string]Point, error) {
	name := strings.ToLower(strings.TrimSpace(strategy))
	if canonical, ok := layoutAliases[name]; ok {
		name = canonical
	}
	switch name {
	case LayoutTight:
		return le.Tight(ids), nil
	case LayoutGrid:
		return le.Grid(ids), nil
	case LayoutFlow:
		return le.Flow(ids), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, strategy)
}

// Tight places nodes in a single row separated by the gap.
func (le *LayoutEngine) Tight(ids []string) map[string]Point {
	out := make(map[string]Point, len(ids))
	for i, id := range ids {
		out[id] = Point{X: float64(i) * (NodeWidth + le.gap)}
	}
	return out
}

// Grid places nodes in a ceil(sqrt(n)) wide grid. Rows leave room for the
// label strip.
func (le *LayoutEngine) Grid(ids []string) map[string]Point {
	out := make(map[string]Point, len(ids))
	if len(ids) == 0 {
		return out
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	colW := NodeWidth + le.gap
	rowH := NodeHeight + LabelStrip + le.gap
	for i, id := range ids {
		out[id] = Point{X: float64(i%cols) * colW, Y: float64(i/cols) * rowH}
	}
	return out
}

// Flow places nodes left to right with double spacing, odd nodes dropped by
// StaggerOffset.
func (le *LayoutEngine) Flow(ids []string) map[string]Point {
	out := make(map[string]Point, len(ids))
	for i, id := range ids {
		p := Point{X: float64(i) * (NodeWidth + 2*le.gap)}
		if i%2 == 1 {
			p.Y = StaggerOffset
		}
		out[id] = p
	}
	return out
}

// NextPosition finds the first grid slot, scanning rows top to bottom and
// columns left to right, whose node box (padded by the gap) overlaps none of
// the existing nodes.
func (le *LayoutEngine) NextPosition(existing []Point) Point {
	if len(existing) == 0 {
		return Point{}
	}

	occupied := make([]Rect, len(existing))
	for i, p := range existing {
		occupied[i] = labeledRect(p).Expand(le.gap / 2)
	}

	colW := NodeWidth + le.gap
	rowH := NodeHeight + LabelStrip + le.gap
	rows := len(existing) + 1
	for row := 0; row < rows; row++ {
		for col := 0; col < le.maxCols; col++ {
			candidate := Point{X: float64(col) * colW, Y: float64(row) * rowH}
			box := labeledRect(candidate)
			free := true
			for _, occ := range occupied {
				if box.Intersects(occ) {
					free = false
					break
				}
			}
			if free {
				return candidate
			}
		}
	}

	// Fallback: start a row below everything
	maxY := 0.0
	for _, p := range existing {
		maxY = math.Max(maxY, p.Y+NodeHeight+LabelStrip)
	}
	return Point{Y: maxY + le.gap}
}
