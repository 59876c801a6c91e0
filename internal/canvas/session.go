package canvas

import (
	"mockboard/internal/domain"
)

// Button is the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Gesture is the pointer gesture currently owned by the session.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureNode
	GestureBand
	GesturePan
)

func (g Gesture) String() string {
	switch g {
	case GestureNode:
		return "node"
	case GestureBand:
		return "band"
	case GesturePan:
		return "pan"
	default:
		return "none"
	}
}

// SessionConfig holds the tunables a session is created with.
type SessionConfig struct {
	Snap       SnapOptions
	Viewport   Size
	Minimap    Size
	FitPadding float64
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Snap:       DefaultSnapOptions(),
		Viewport:   Size{Width: 1440, Height: 900},
		Minimap:    DefaultMinimapSize,
		FitPadding: FitPadding,
	}
}

// PointerResult tells the caller what a pointer event changed.
type PointerResult struct {
	Gesture          Gesture          `json:"gesture"`
	Guides           []Guide          `json:"guides,omitempty"`
	Band             *Rect            `json:"band,omitempty"`
	Moved            map[string]Point `json:"moved,omitempty"` // final positions after a drag
	Clicked          string           `json:"clicked,omitempty"`
	ContextMenu      string           `json:"contextMenu,omitempty"`
	SelectionChanged bool             `json:"selectionChanged"`
	CameraChanged    bool             `json:"cameraChanged"`
	Aborted          bool             `json:"aborted"`
}

type panGesture struct {
	origin Point // camera pan at press
	press  Point
	last   Point
	moving bool
}

// Session is the engine state of one loaded collection. It is not safe for
// concurrent use; callers serialise access the way a UI thread would.
type Session struct {
	collectionID string

	model     *Model
	selection *Selection
	graph     *Graph
	layout    *LayoutEngine
	drag      *DragController
	band      BandSelect
	pan       panGesture
	gesture   Gesture

	camera     Camera
	snap       SnapOptions
	viewport   Size
	minimap    Size
	fitPadding float64
	live       map[string]bool
	closed     bool
}

// NewSession builds the session for a collection.
func NewSession(collectionID string, nodes []domain.ScreenNode, conns []domain.Connection, cam Camera, cfg SessionConfig) *Session {
	m := NewModel(nodes)
	sel := NewSelection()
	return &Session{
		collectionID: collectionID,
		model:        m,
		selection:    sel,
		graph:        NewGraph(conns),
		layout:       NewLayoutEngine(),
		drag:         NewDragController(m, sel),
		camera:       cam.Normalized(),
		snap:         cfg.Snap,
		viewport:     cfg.Viewport,
		minimap:      cfg.Minimap,
		fitPadding:   cfg.FitPadding,
		live:         make(map[string]bool),
	}
}

func (s *Session) CollectionID() string { return s.collectionID }

// Close tears the session down. Every later call is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.drag.Cancel()
	s.band.Cancel()
	s.gesture = GestureNone
	s.closed = true
}

func (s *Session) Closed() bool { return s.closed }

// ── Read access ────────────────────────────────────────────

func (s *Session) Nodes() []domain.ScreenNode { return s.model.Nodes() }
func (s *Session) Positions() map[string]Point { return s.model.Positions() }
func (s *Session) Camera() Camera { return s.camera }
func (s *Session) SnapOptions() SnapOptions { return s.snap }
func (s *Session) Viewport() Size { return s.viewport }
func (s *Session) Selected() []string { return s.selection.IDs() }
func (s *Session) Primary() string { return s.selection.Primary() }
func (s *Session) Connections() []domain.Connection { return s.graph.All() }
func (s *Session) Edges() []RenderedEdge { return s.graph.Visible(s.model) }
func (s *Session) DragState() DragState { return s.drag.State() }
func (s *Session) Gesture() Gesture { return s.gesture }

func (s *Session) Position(id string) (Point, bool) { return s.model.Position(id) }

// VisibleConnections returns connections whose endpoints both exist.
func (s *Session) VisibleConnections() []domain.Connection {
	edges := s.Edges()
	out := make([]domain.Connection, len(edges))
	for i, e := range edges {
		out[i] = e.Connection
	}
	return out
}

// Snapshot is everything a front end needs to draw the board.
type Snapshot struct {
	Nodes       []domain.ScreenNode `json:"nodes"`
	Connections []domain.Connection `json:"connections"` // drawable only
	Edges       []RenderedEdge      `json:"edges"`
	Selected    []string            `json:"selected"`
	Primary     string              `json:"primary,omitempty"`
	Camera      Camera              `json:"camera"`
	GridSnap    bool                `json:"gridSnap"`
}

func (s *Session) Snapshot() Snapshot {
	edges := s.Edges()
	conns := make([]domain.Connection, len(edges))
	for i, e := range edges {
		conns[i] = e.Connection
	}
	selected := s.selection.IDs()
	if selected == nil {
		selected = []string{}
	}
	return Snapshot{
		Nodes:       s.model.Nodes(),
		Connections: conns,
		Edges:       edges,
		Selected:    selected,
		Primary:     s.selection.Primary(),
		Camera:      s.camera,
		GridSnap:    s.snap.GridSnap,
	}
}

// Minimap projects the current board into the configured minimap size.
func (s *Session) Minimap() Projection {
	return ProjectMinimap(s.model.Nodes(), s.camera, s.viewport, s.minimap)
}

// ── Pointer gestures ───────────────────────────────────────

// PointerDown starts a gesture at screen point p. A press on a node starts
// a drag, shift on empty canvas starts a rubber band, and a plain press on
// empty canvas pans. A secondary press on a node asks for the context menu.
func (s *Session) PointerDown(p Point, b Button, mods Modifiers) PointerResult {
	if s.closed || s.gesture != GestureNone {
		return PointerResult{Gesture: s.gesture}
	}
	hit, onNode := s.model.NodeAt(s.camera.ScreenToWorld(p))

	if b == ButtonSecondary {
		if onNode {
			return PointerResult{ContextMenu: hit}
		}
		return PointerResult{}
	}

	switch {
	case onNode:
		if s.live[hit] || !s.drag.Press(hit, p) {
			return PointerResult{}
		}
		s.gesture = GestureNode
	case mods.Shift:
		s.band.Begin(p)
		s.gesture = GestureBand
	default:
		s.pan = panGesture{origin: s.camera.Pan, press: p, last: p}
		s.gesture = GesturePan
	}
	return PointerResult{Gesture: s.gesture}
}

// PointerMove advances the active gesture.
func (s *Session) PointerMove(p Point) PointerResult {
	if s.closed {
		return PointerResult{}
	}
	res := PointerResult{Gesture: s.gesture}

	switch s.gesture {
	case GestureNode:
		u := s.drag.Move(p, s.camera, s.snap)
		if u.Aborted {
			s.gesture = GestureNone
			res.Gesture = GestureNone
			res.Aborted = true
		}
		res.Guides = u.Guides
	case GestureBand:
		s.band.Update(p)
		r := s.band.Rect()
		res.Band = &r
	case GesturePan:
		if !s.pan.moving && distance(p.Sub(s.pan.press)) <= DragJitter {
			return res
		}
		s.pan.moving = true
		s.camera.PanBy(p.Sub(s.pan.last))
		s.pan.last = p
		res.CameraChanged = true
	}
	return res
}

// PointerUp ends the active gesture.
func (s *Session) PointerUp(mods Modifiers) PointerResult {
	if s.closed {
		return PointerResult{}
	}
	g := s.gesture
	s.gesture = GestureNone
	res := PointerResult{Gesture: g}

	switch g {
	case GestureNode:
		out := s.drag.Release(mods)
		switch out.Kind {
		case OutcomeDrag:
			res.Moved = out.Positions
		case OutcomeClick:
			res.Clicked = out.NodeID
			res.SelectionChanged = true
		}
	case GestureBand:
		s.selection.Replace(s.band.End(s.model, s.camera))
		res.SelectionChanged = true
	case GesturePan:
		if s.pan.moving {
			res.CameraChanged = true
		} else if s.selection.Len() > 0 {
			s.selection.Clear()
			res.SelectionChanged = true
		}
	}
	return res
}

// Escape cancels whatever is in flight. A node drag restores every moved
// node to its pre-drag position; a pan restores the camera.
func (s *Session) Escape() bool {
	if s.closed {
		return false
	}
	cancelled := false
	switch s.gesture {
	case GestureNode:
		cancelled = s.drag.Cancel()
	case GestureBand:
		s.band.Cancel()
		cancelled = true
	case GesturePan:
		s.camera.Pan = s.pan.origin
		cancelled = true
	}
	s.gesture = GestureNone
	if _, ok := s.graph.Pending(); ok {
		s.graph.CancelConnection()
		cancelled = true
	}
	return cancelled
}

// cancelDrag aborts an in-flight node drag before a whole-board mutation.
func (s *Session) cancelDrag() {
	if s.gesture == GestureNode {
		s.drag.Cancel()
		s.gesture = GestureNone
	}
}

// ── Commands ───────────────────────────────────────────────

// ApplyLayout overwrites every position with the named strategy. An active
// drag is cancelled first so its snapshot is not corrupted.
func (s *Session) ApplyLayout(strategy string) (map[string]Point, error) {
	positions, err := s.layout.Apply(strategy, s.model.IDs())
	if err != nil {
		return nil, err
	}
	if s.closed {
		return nil, nil
	}
	s.cancelDrag()
	s.model.Assign(positions)
	return positions, nil
}

// RestorePositions writes a saved snapshot back, cancelling any drag.
func (s *Session) RestorePositions(positions map[string]Point) int {
	if s.closed {
		return 0
	}
	s.cancelDrag()
	return s.model.Assign(positions)
}

// FitToContent frames every node. Returns false on an empty board.
func (s *Session) FitToContent() bool {
	if s.closed {
		return false
	}
	cam, ok := FitToContent(s.model.Points(), s.viewport, s.fitPadding)
	if !ok {
		return false
	}
	s.camera = cam
	return true
}

// SetZoom sets an absolute zoom about the viewport centre; out of range
// values are clamped.
func (s *Session) SetZoom(z float64) Camera {
	if !s.closed {
		s.camera.SetZoom(z, s.viewport)
	}
	return s.camera
}

// ZoomAt zooms by factor toward screen point p.
func (s *Session) ZoomAt(p Point, factor float64) Camera {
	if !s.closed {
		s.camera.ZoomAt(p, factor)
	}
	return s.camera
}

// Wheel zooms toward p for a wheel delta.
func (s *Session) Wheel(p Point, deltaY float64) Camera {
	return s.ZoomAt(p, WheelFactor(deltaY))
}

func (s *Session) PanBy(delta Point) Camera {
	if !s.closed {
		s.camera.PanBy(delta)
	}
	return s.camera
}

// SetCamera replaces the camera; zoom is clamped.
func (s *Session) SetCamera(cam Camera) {
	if !s.closed {
		s.camera = cam.Normalized()
	}
}

// SetViewport records the on-screen size of the canvas.
func (s *Session) SetViewport(size Size) {
	if !s.closed && size.Width > 0 && size.Height > 0 {
		s.viewport = size
	}
}

// MinimapNavigate centres the camera on the world point under a minimap
// click.
func (s *Session) MinimapNavigate(pt Point) bool {
	if s.closed {
		return false
	}
	w, ok := s.Minimap().ToWorld(pt)
	if !ok {
		return false
	}
	s.camera.CenterOn(w, s.viewport)
	return true
}

// ToggleGridSnap flips grid snapping and returns the new state.
func (s *Session) ToggleGridSnap() bool {
	if !s.closed {
		s.snap.GridSnap = !s.snap.GridSnap
	}
	return s.snap.GridSnap
}

// SetSnapOptions replaces the snapping settings.
func (s *Session) SetSnapOptions(opts SnapOptions) {
	if !s.closed {
		s.snap = opts
	}
}

// ResetNodePosition moves a node back to its slot in the tight layout.
func (s *Session) ResetNodePosition(id string) (Point, bool) {
	if s.closed || !s.model.Has(id) {
		return Point{}, false
	}
	p := s.layout.Tight(s.model.IDs())[id]
	s.model.SetPosition(id, p)
	return p, true
}

func (s *Session) BringToFront(id string) bool {
	if s.closed {
		return false
	}
	return s.model.BringToFront(id)
}

// SetLive marks a node as showing interactive content; presses on a live
// node go to the content instead of starting a drag.
func (s *Session) SetLive(id string, live bool) bool {
	if s.closed || !s.model.Has(id) {
		return false
	}
	if live {
		s.live[id] = true
	} else {
		delete(s.live, id)
	}
	return true
}

// AddNode inserts a node at its given position.
func (s *Session) AddNode(n domain.ScreenNode) bool {
	if s.closed {
		return false
	}
	return s.model.Add(n)
}

// PlaceNode inserts a node at the first free slot and returns where.
func (s *Session) PlaceNode(id, name string) (Point, bool) {
	if s.closed || s.model.Has(id) {
		return Point{}, false
	}
	p := s.layout.NextPosition(s.model.Points())
	s.model.Add(domain.ScreenNode{ID: id, Name: name, Position: p})
	return p, true
}

// RemoveNode drops a node and prunes it from the selection. Connections are
// kept and filtered when rendering. A drag on the node aborts on its next
// move.
func (s *Session) RemoveNode(id string) bool {
	if s.closed || !s.model.Remove(id) {
		return false
	}
	delete(s.live, id)
	s.selection.Prune(s.model.Has)
	return true
}

// SetPosition moves one node.
func (s *Session) SetPosition(id string, p Point) bool {
	if s.closed {
		return false
	}
	return s.model.SetPosition(id, p)
}

// MoveNodes translates ids by delta and returns the new positions of the
// nodes that exist.
func (s *Session) MoveNodes(ids []string, delta Point) map[string]Point {
	out := make(map[string]Point, len(ids))
	if s.closed {
		return out
	}
	for _, id := range ids {
		if p, ok := s.model.Position(id); ok {
			p = p.Add(delta)
			s.model.SetPosition(id, p)
			out[id] = p
		}
	}
	return out
}

// SelectNodes replaces the selection with the ids that exist.
func (s *Session) SelectNodes(ids []string) []string {
	if s.closed {
		return nil
	}
	var valid []string
	for _, id := range ids {
		if s.model.Has(id) {
			valid = append(valid, id)
		}
	}
	s.selection.Replace(valid)
	return s.selection.IDs()
}

// SetPrimary makes id the only selected node.
func (s *Session) SetPrimary(id string) bool {
	if s.closed || !s.model.Has(id) {
		return false
	}
	s.selection.Select(id)
	return true
}

func (s *Session) ClearSelection() {
	if !s.closed {
		s.selection.Clear()
	}
}

// StartConnection picks the source of a new connection.
func (s *Session) StartConnection(from string) bool {
	if s.closed || !s.model.Has(from) {
		return false
	}
	s.graph.StartConnection(from)
	return true
}

// PendingConnection returns the picked source, if any.
func (s *Session) PendingConnection() (string, bool) {
	return s.graph.Pending()
}

func (s *Session) CancelConnection() {
	s.graph.CancelConnection()
}

// CompleteConnection connects the pending source to to. The source may have
// vanished since it was picked; then nothing is added.
func (s *Session) CompleteConnection(to string, t domain.ConnectionType) (int, bool) {
	if s.closed || !s.model.Has(to) {
		return -1, false
	}
	from, ok := s.graph.Pending()
	if !ok {
		return -1, false
	}
	if !s.model.Has(from) {
		s.graph.CancelConnection()
		return -1, false
	}
	return s.graph.CompleteConnection(to, t)
}

// AddConnection adds an edge directly between two existing nodes.
func (s *Session) AddConnection(from, to string, t domain.ConnectionType) (int, bool) {
	if s.closed || !s.model.Has(from) || !s.model.Has(to) {
		return -1, false
	}
	return s.graph.Add(from, to, t), true
}

// UpdateConnection patches edge i and returns only that edge for redraw.
// The edge is nil when the update applied but an endpoint is gone.
func (s *Session) UpdateConnection(i int, patch ConnectionPatch) (*RenderedEdge, bool) {
	if s.closed || !s.graph.Update(i, patch) {
		return nil, false
	}
	if e, ok := s.graph.Render(i, s.model); ok {
		return &e, true
	}
	return nil, true
}

func (s *Session) DeleteConnection(i int) bool {
	if s.closed {
		return false
	}
	return s.graph.Remove(i)
}

func (s *Session) ClearConnections() int {
	if s.closed {
		return 0
	}
	return s.graph.Clear()
}
