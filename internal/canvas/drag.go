package canvas

import "mockboard/internal/domain"

// DragState is a node-drag gesture state.
type DragState int

const (
	DragIdle DragState = iota
	DragPressed
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragPressed:
		return "pressed"
	case DragDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Alt   bool `json:"alt"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
}

// DragOutcomeKind says how a gesture ended.
type DragOutcomeKind int

const (
	OutcomeNone DragOutcomeKind = iota
	OutcomeClick
	OutcomeDrag
)

// DragOutcome is returned on release.
type DragOutcome struct {
	Kind      DragOutcomeKind
	NodeID    string
	Positions map[string]Point // final positions of every moved node
}

// DragUpdate is returned on every move.
type DragUpdate struct {
	Moved   bool
	Aborted bool
	Guides  []Guide
}

// DragController runs the press/drag/release state machine for single and
// multi-node drags. Snapping is resolved for the pressed node only and the
// same corrected delta is applied to every follower.
type DragController struct {
	model *Model
	sel   *Selection

	state     DragState
	nodeID    string
	start     Point // world position of the pressed node
	pointer   Point // screen position of the press
	followers []string
	snapshot  map[string]Point // pre-drag positions, pressed node included
}

func NewDragController(m *Model, sel *Selection) *DragController {
	return &DragController{model: m, sel: sel}
}

func (d *DragController) State() DragState { return d.state }

func (d *DragController) Active() bool { return d.state != DragIdle }

// NodeID is the pressed node, or "" when idle.
func (d *DragController) NodeID() string { return d.nodeID }

// Press starts a gesture on node id at screen point p. Unknown ids are
// ignored.
func (d *DragController) Press(id string, p Point) bool {
	start, ok := d.model.Position(id)
	if !ok {
		return false
	}
	d.state = DragPressed
	d.nodeID = id
	d.start = start
	d.pointer = p
	d.followers = nil
	d.snapshot = map[string]Point{id: start}

	if d.sel.Has(id) && d.sel.Len() > 1 {
		for _, fid := range d.sel.IDs() {
			if fid == id {
				continue
			}
			if fp, ok := d.model.Position(fid); ok {
				d.followers = append(d.followers, fid)
				d.snapshot[fid] = fp
			}
		}
	}
	return true
}

// Move advances the gesture to screen point p under camera cam.
func (d *DragController) Move(p Point, cam Camera, opts SnapOptions) DragUpdate {
	if d.state == DragIdle {
		return DragUpdate{}
	}
	if !d.model.Has(d.nodeID) {
		d.reset()
		return DragUpdate{Aborted: true}
	}

	delta := p.Sub(d.pointer)
	if d.state == DragPressed {
		if distance(delta) <= DragJitter {
			return DragUpdate{}
		}
		d.state = DragDragging
	}

	zoom := ClampZoom(cam.Zoom)
	proposed := d.start.Add(delta.Scale(1 / zoom))

	opts.Zoom = zoom
	res := ResolveSnap(d.nodeID, proposed, d.staticNodes(), opts)
	corrected := res.Position.Sub(d.start)

	d.model.SetPosition(d.nodeID, d.start.Add(corrected))
	for _, fid := range d.followers {
		d.model.SetPosition(fid, d.snapshot[fid].Add(corrected))
	}
	return DragUpdate{Moved: true, Guides: res.Guides}
}

// Release ends the gesture. A press that never passed the jitter threshold
// is treated as a click and updates the selection.
func (d *DragController) Release(mods Modifiers) DragOutcome {
	defer d.reset()

	switch d.state {
	case DragDragging:
		out := DragOutcome{Kind: OutcomeDrag, NodeID: d.nodeID, Positions: make(map[string]Point, len(d.snapshot))}
		for id := range d.snapshot {
			if p, ok := d.model.Position(id); ok {
				out.Positions[id] = p
			}
		}
		return out
	case DragPressed:
		if !d.model.Has(d.nodeID) {
			return DragOutcome{}
		}
		d.click(d.nodeID, mods)
		return DragOutcome{Kind: OutcomeClick, NodeID: d.nodeID}
	}
	return DragOutcome{}
}

// Cancel restores every node of the gesture to its pre-drag position.
func (d *DragController) Cancel() bool {
	if d.state == DragIdle {
		return false
	}
	for id, p := range d.snapshot {
		d.model.SetPosition(id, p)
	}
	d.reset()
	return true
}

func (d *DragController) click(id string, mods Modifiers) {
	switch {
	case mods.Shift:
		d.sel.Toggle(id)
	case d.sel.Primary() == id:
		d.sel.Clear()
	default:
		d.sel.Select(id)
	}
}

// staticNodes are the snap targets: everything not moving with the gesture.
func (d *DragController) staticNodes() []domain.ScreenNode {
	all := d.model.Nodes()
	out := all[:0]
	for _, n := range all {
		if _, moving := d.snapshot[n.ID]; !moving {
			out = append(out, n)
		}
	}
	return out
}

func (d *DragController) reset() {
	d.state = DragIdle
	d.nodeID = ""
	d.followers = nil
	d.snapshot = nil
}
