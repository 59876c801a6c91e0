package canvas

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mockboard/internal/domain"
)

// ConnectionStyle is the fixed visual identity of a connection type.
type ConnectionStyle struct {
	Color       string    `json:"color"`
	Dash        []float64 `json:"dash,omitempty"`
	DisplayName string    `json:"displayName"`
}

var connectionStyles = map[domain.ConnectionType]ConnectionStyle{
	domain.ConnectionTap:   {Color: "#3b82f6", DisplayName: "Tap"},
	domain.ConnectionSwipe: {Color: "#a855f7", Dash: []float64{6, 4}, DisplayName: "Swipe"},
	domain.ConnectionAuto:  {Color: "#22c55e", Dash: []float64{2, 4}, DisplayName: "Auto"},
	domain.ConnectionBack:  {Color: "#f97316", Dash: []float64{8, 4, 2, 4}, DisplayName: "Back"},
	domain.ConnectionLink:  {Color: "#64748b", Dash: []float64{10, 6}, DisplayName: "Link"},
}

// StyleFor returns the style of t, falling back to tap.
func StyleFor(t domain.ConnectionType) ConnectionStyle {
	if s, ok := connectionStyles[t]; ok {
		return s
	}
	return connectionStyles[domain.ConnectionTap]
}

// LegendEntry pairs a connection type with its style.
type LegendEntry struct {
	Type  domain.ConnectionType `json:"type"`
	Style ConnectionStyle       `json:"style"`
}

// Legend lists every type with its style in legend order.
func Legend() []LegendEntry {
	out := make([]LegendEntry, len(domain.ConnectionTypes))
	for i, t := range domain.ConnectionTypes {
		out[i] = LegendEntry{Type: t, Style: StyleFor(t)}
	}
	return out
}

// DisplayLabel is the custom label or the type's display name.
func DisplayLabel(c domain.Connection) string {
	if strings.TrimSpace(c.Label) != "" {
		return c.Label
	}
	return StyleFor(c.Type).DisplayName
}

// ParseConnectionType validates a type name. Empty means tap.
func ParseConnectionType(s string) (domain.ConnectionType, error) {
	if s == "" {
		return domain.ConnectionTap, nil
	}
	t := domain.ConnectionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownConnectionType, s)
	}
	return t, nil
}

// Bezier is a cubic curve.
type Bezier struct {
	Start    Point `json:"start"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	End      Point `json:"end"`
}

// At evaluates the curve at t in [0,1].
func (b Bezier) At(t float64) Point {
	u := 1 - t
	a, c, d, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*b.Start.X + c*b.Control1.X + d*b.Control2.X + e*b.End.X,
		Y: a*b.Start.Y + c*b.Control1.Y + d*b.Control2.Y + e*b.End.Y,
	}
}

// SVGPath renders the curve as an SVG path.
func (b Bezier) SVGPath() string {
	return fmt.Sprintf("M %g %g C %g %g, %g %g, %g %g",
		b.Start.X, b.Start.Y,
		b.Control1.X, b.Control1.Y,
		b.Control2.X, b.Control2.Y,
		b.End.X, b.End.Y)
}

// RenderPath draws an edge from the bottom-centre of the node at from to the
// top-centre of the node at to. Control points always bend downward so rows
// of screens read as a consistent flow.
func RenderPath(from, to Point) Bezier {
	start := Point{X: from.X + NodeWidth/2, Y: from.Y + NodeHeight}
	end := Point{X: to.X + NodeWidth/2, Y: to.Y}
	return Bezier{
		Start:    start,
		Control1: Point{X: start.X, Y: start.Y + CurveOffset},
		Control2: Point{X: end.X, Y: end.Y - CurveOffset},
		End:      end,
	}
}

// ConnectionPatch is a partial update; nil fields are left unchanged.
type ConnectionPatch struct {
	Type  *domain.ConnectionType `json:"type,omitempty"`
	Label *string                `json:"label,omitempty"`
}

// RenderedEdge is one drawable connection.
type RenderedEdge struct {
	Index      int               `json:"index"`
	Connection domain.Connection `json:"connection"`
	Label      string            `json:"label"`
	Style      ConnectionStyle   `json:"style"`
	Path       Bezier            `json:"path"`
	SVG        string            `json:"svg"`
}

// Graph is the ordered list of connections of a collection. Edges are
// addressed by index; they are never removed when an endpoint disappears.
type Graph struct {
	conns   []domain.Connection
	pending string
	newID   func() string
}

// NewGraph copies conns into a new graph.
func NewGraph(conns []domain.Connection) *Graph {
	return &Graph{
		conns: append([]domain.Connection(nil), conns...),
		newID: uuid.NewString,
	}
}

func (g *Graph) Len() int { return len(g.conns) }

// All returns a copy of every connection, dangling ones included.
func (g *Graph) All() []domain.Connection {
	return append([]domain.Connection(nil), g.conns...)
}

func (g *Graph) At(i int) (domain.Connection, bool) {
	if i < 0 || i >= len(g.conns) {
		return domain.Connection{}, false
	}
	return g.conns[i], true
}

// Add appends an edge and returns its index. An empty type means tap.
func (g *Graph) Add(from, to string, t domain.ConnectionType) int {
	if t == "" {
		t = domain.ConnectionTap
	}
	g.conns = append(g.conns, domain.Connection{ID: g.newID(), From: from, To: to, Type: t})
	return len(g.conns) - 1
}

// Update applies patch to edge i in place.
func (g *Graph) Update(i int, patch ConnectionPatch) bool {
	if i < 0 || i >= len(g.conns) {
		return false
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return false
		}
		g.conns[i].Type = *patch.Type
	}
	if patch.Label != nil {
		g.conns[i].Label = *patch.Label
	}
	return true
}

func (g *Graph) Remove(i int) bool {
	if i < 0 || i >= len(g.conns) {
		return false
	}
	g.conns = append(g.conns[:i], g.conns[i+1:]...)
	return true
}

// Clear removes every edge and returns how many there were.
func (g *Graph) Clear() int {
	n := len(g.conns)
	g.conns = nil
	g.pending = ""
	return n
}

// StartConnection records the source of an interactive connection.
func (g *Graph) StartConnection(from string) {
	g.pending = from
}

// Pending returns the source picked by StartConnection.
func (g *Graph) Pending() (string, bool) {
	return g.pending, g.pending != ""
}

func (g *Graph) CancelConnection() {
	g.pending = ""
}

// CompleteConnection adds an edge from the pending source to to.
func (g *Graph) CompleteConnection(to string, t domain.ConnectionType) (int, bool) {
	if g.pending == "" {
		return -1, false
	}
	i := g.Add(g.pending, to, t)
	g.pending = ""
	return i, true
}

// Render returns edge i ready to draw, or false when it is out of range or
// dangling.
func (g *Graph) Render(i int, m *Model) (RenderedEdge, bool) {
	c, ok := g.At(i)
	if !ok {
		return RenderedEdge{}, false
	}
	from, okFrom := m.Position(c.From)
	to, okTo := m.Position(c.To)
	if !okFrom || !okTo {
		return RenderedEdge{}, false
	}
	path := RenderPath(from, to)
	return RenderedEdge{
		Index:      i,
		Connection: c,
		Label:      DisplayLabel(c),
		Style:      StyleFor(c.Type),
		Path:       path,
		SVG:        path.SVGPath(),
	}, true
}

// Visible returns every drawable edge; dangling edges are omitted.
func (g *Graph) Visible(m *Model) []RenderedEdge {
	out := make([]RenderedEdge, 0, len(g.conns))
	for i := range g.conns {
		if e, ok := g.Render(i, m); ok {
			out = append(out, e)
		}
	}
	return out
}
