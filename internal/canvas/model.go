package canvas

import (
	"maps"

	"mockboard/internal/domain"
)

// Model is the geometry of the loaded collection: node ids in insertion
// order, their positions and their stacking order. Insertion order is the
// iteration order used by snapping and layout.
type Model struct {
	order []string
	pos   map[string]Point
	names map[string]string
	z     map[string]int
	topZ  int
}

// NewModel builds a model from nodes, keeping their order.
func NewModel(nodes []domain.ScreenNode) *Model {
	m := &Model{
		pos:   make(map[string]Point, len(nodes)),
		names: make(map[string]string, len(nodes)),
		z:     make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		m.Add(n)
	}
	return m
}

// Add inserts a node. Returns false if the id is already present.
func (m *Model) Add(n domain.ScreenNode) bool {
	if _, ok := m.pos[n.ID]; ok || n.ID == "" {
		return false
	}
	m.order = append(m.order, n.ID)
	m.pos[n.ID] = n.Position
	m.names[n.ID] = n.Name
	m.topZ++
	m.z[n.ID] = m.topZ
	return true
}

// Remove deletes a node. Connections and selections referring to it are
// left for their owners to filter.
func (m *Model) Remove(id string) bool {
	if _, ok := m.pos[id]; !ok {
		return false
	}
	delete(m.pos, id)
	delete(m.names, id)
	delete(m.z, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *Model) Has(id string) bool {
	_, ok := m.pos[id]
	return ok
}

func (m *Model) Len() int { return len(m.order) }

func (m *Model) Position(id string) (Point, bool) {
	p, ok := m.pos[id]
	return p, ok
}

// SetPosition moves an existing node. Unknown ids are ignored.
func (m *Model) SetPosition(id string, p Point) bool {
	if _, ok := m.pos[id]; !ok {
		return false
	}
	m.pos[id] = p
	return true
}

// Rect is the world box of node id.
func (m *Model) Rect(id string) (Rect, bool) {
	p, ok := m.pos[id]
	if !ok {
		return Rect{}, false
	}
	return NodeRect(p), true
}

// IDs returns node ids in insertion order.
func (m *Model) IDs() []string {
	return append([]string(nil), m.order...)
}

// Nodes returns every node in insertion order.
func (m *Model) Nodes() []domain.ScreenNode {
	out := make([]domain.ScreenNode, len(m.order))
	for i, id := range m.order {
		out[i] = domain.ScreenNode{ID: id, Name: m.names[id], Position: m.pos[id]}
	}
	return out
}

// Points returns node positions in insertion order.
func (m *Model) Points() []Point {
	out := make([]Point, len(m.order))
	for i, id := range m.order {
		out[i] = m.pos[id]
	}
	return out
}

// Positions returns a copy of the position map.
func (m *Model) Positions() map[string]Point {
	return maps.Clone(m.pos)
}

// Assign overwrites positions from a layout assignment. Ids not in the
// model are dropped. Returns the number of nodes moved.
func (m *Model) Assign(positions map[string]Point) int {
	n := 0
	for id, p := range positions {
		if m.SetPosition(id, p) {
			n++
		}
	}
	return n
}

// BringToFront raises id above every other node for hit-testing.
func (m *Model) BringToFront(id string) bool {
	if _, ok := m.pos[id]; !ok {
		return false
	}
	m.topZ++
	m.z[id] = m.topZ
	return true
}

// NodeAt returns the topmost node containing world point p.
func (m *Model) NodeAt(p Point) (string, bool) {
	best, bestZ := "", -1
	for _, id := range m.order {
		if NodeRect(m.pos[id]).Contains(p) && m.z[id] > bestZ {
			best, bestZ = id, m.z[id]
		}
	}
	return best, bestZ >= 0
}

// Intersecting returns ids whose world box overlaps r, in insertion order.
func (m *Model) Intersecting(r Rect) []string {
	var out []string
	for _, id := range m.order {
		if NodeRect(m.pos[id]).Intersects(r) {
			out = append(out, id)
		}
	}
	return out
}
