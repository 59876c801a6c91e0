package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"mockboard/internal/canvas"
	"mockboard/internal/domain"
	"mockboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Board Service: the open collection and its canvas session
// ─────────────────────────────────────────────────────────────

// ErrNoCollection is returned by board commands when nothing is open.
var ErrNoCollection = errors.New("no collection open")

// BoardService owns the canvas session of the open collection. The Wails
// bindings and the MCP server call it from different goroutines, so every
// session access goes through mu. Changes are persisted before the call
// returns and announced through the emitter.
type BoardService struct {
	collections domain.CollectionStore
	screens     domain.ScreenStore
	layouts     domain.LayoutStore
	history     *HistoryService // optional
	emitter     EventEmitter
	logger      *log.Logger

	mu          sync.Mutex
	cfg         canvas.SessionConfig
	recordDrags bool
	collection  *domain.Collection
	session     *canvas.Session
	preGesture  map[string]canvas.Point // positions at the last pointer down
}

// NewBoardService creates a BoardService. history may be nil.
func NewBoardService(
	collections domain.CollectionStore,
	screens domain.ScreenStore,
	layouts domain.LayoutStore,
	history *HistoryService,
	emitter EventEmitter,
	logger *log.Logger,
	cfg canvas.SessionConfig,
) *BoardService {
	if logger == nil {
		logger = log.Default()
	}
	return &BoardService{
		collections: collections,
		screens:     screens,
		layouts:     layouts,
		history:     history,
		emitter:     emitter,
		logger:      logger,
		cfg:         cfg,
		recordDrags: true,
	}
}

// SetRecordDrags controls whether finished pointer drags are added to the
// layout history. Layout commands are always recorded.
func (s *BoardService) SetRecordDrags(on bool) {
	s.mu.Lock()
	s.recordDrags = on
	s.mu.Unlock()
}

// ConnectionInfo is one stored connection as listed to clients.
type ConnectionInfo struct {
	Index int `json:"index"`
	domain.Connection
	DisplayLabel string `json:"displayLabel"`
	Visible      bool   `json:"visible"`
}

// ConnectionPatchInput is an update request with an unparsed type name.
type ConnectionPatchInput struct {
	Type  *string `json:"type,omitempty"`
	Label *string `json:"label,omitempty"`
}

// ── Collections ────────────────────────────────────────────

func (s *BoardService) ListCollections() ([]domain.Collection, error) {
	return s.collections.ListCollections()
}

func (s *BoardService) CreateCollection(ctx context.Context, name string) (*domain.Collection, error) {
	c := &domain.Collection{
		ID:       uuid.New().String(),
		Name:     name,
		Zoom:     1,
		GridSnap: s.snapDefaults().GridSnap,
	}
	if err := s.collections.CreateCollection(c); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.emitter.Emit(ctx, EventCollectionsChanged, c)
	return c, nil
}

// DeleteCollection removes a collection with its screens, layout and
// history. Deleting the open collection closes it first.
func (s *BoardService) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection != nil && s.collection.ID == id {
		s.session.Close()
		s.session, s.collection = nil, nil
	}
	if err := s.layouts.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	if s.history != nil {
		if err := s.history.Clear(ctx, id); err != nil {
			return err
		}
	}
	if err := s.screens.DeleteScreensByCollection(id); err != nil {
		return fmt.Errorf("delete screens: %w", err)
	}
	if err := s.collections.DeleteCollection(id); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	s.emitter.Emit(ctx, EventCollectionsChanged, id)
	return nil
}

// OpenCollection loads a collection into a fresh session, closing the one
// that was open. Screens with no stored position are placed in the first
// free slots and the result is saved.
func (s *BoardService) OpenCollection(ctx context.Context, id string) (*domain.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collections.GetCollection(id)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	screens, err := s.screens.ListScreens(id)
	if err != nil {
		return nil, fmt.Errorf("list screens: %w", err)
	}
	positions, err := s.layouts.LoadPositions(ctx, id)
	if err != nil {
		return nil, err
	}
	conns, err := s.layouts.LoadConnections(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.closeLocked(); err != nil {
		s.logger.Warn("close previous collection", "err", err)
	}

	nodes, placed := placeScreens(screens, positions)

	cfg := s.cfg
	cfg.Snap.GridSnap = c.GridSnap
	cam := canvas.Camera{Pan: canvas.Point{X: c.PanX, Y: c.PanY}, Zoom: c.Zoom}
	s.session = canvas.NewSession(id, nodes, conns, cam, cfg)
	s.collection = c
	s.preGesture = nil

	if placed > 0 {
		if err := s.savePositionsLocked(ctx); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("collection opened", "id", id, "screens", len(nodes), "connections", len(conns), "placed", placed)
	state := s.stateLocked()
	s.emitter.Emit(ctx, EventBoardChanged, state)
	return state, nil
}

// placeScreens keeps screen order and gives unpositioned screens free slots.
func placeScreens(screens []domain.Screen, positions map[string]domain.Point) ([]domain.ScreenNode, int) {
	nodes := make([]domain.ScreenNode, len(screens))
	var occupied []canvas.Point
	var missing []int
	for i, sc := range screens {
		nodes[i] = domain.ScreenNode{ID: sc.ID, Name: sc.Name}
		if p, ok := positions[sc.ID]; ok {
			nodes[i].Position = p
			occupied = append(occupied, p)
		} else {
			missing = append(missing, i)
		}
	}
	le := canvas.NewLayoutEngine()
	for _, i := range missing {
		p := le.NextPosition(occupied)
		nodes[i].Position = p
		occupied = append(occupied, p)
	}
	return nodes, len(missing)
}

// CloseCollection saves the camera and closes the session.
func (s *BoardService) CloseCollection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *BoardService) closeLocked() error {
	if s.session == nil {
		return nil
	}
	err := s.saveCameraLocked()
	s.session.Close()
	s.session, s.collection = nil, nil
	return err
}

// CurrentCollection returns the open collection id, or "".
func (s *BoardService) CurrentCollection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection == nil {
		return ""
	}
	return s.collection.ID
}

// Board returns the state of the open collection.
func (s *BoardService) Board() (*domain.BoardState, error) {
	var state *domain.BoardState
	err := s.locked(func(*canvas.Session) error {
		state = s.stateLocked()
		return nil
	})
	return state, err
}

// Render returns the drawable snapshot, edge paths included.
func (s *BoardService) Render() (*canvas.Snapshot, error) {
	var snap canvas.Snapshot
	err := s.locked(func(sess *canvas.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *BoardService) Minimap() (canvas.Projection, error) {
	var proj canvas.Projection
	err := s.locked(func(sess *canvas.Session) error {
		proj = sess.Minimap()
		return nil
	})
	return proj, err
}

// ── Screens ────────────────────────────────────────────────

// RegisterScreen adds a screen to the open collection at the first free
// slot. An empty id gets a generated one.
func (s *BoardService) RegisterScreen(ctx context.Context, id, name string) (*domain.ScreenNode, error) {
	var node *domain.ScreenNode
	err := s.locked(func(sess *canvas.Session) error {
		if id == "" {
			id = uuid.New().String()
		}
		if _, exists := sess.Position(id); exists {
			return fmt.Errorf("register screen: %q is already on the board", id)
		}
		sc := &domain.Screen{ID: id, CollectionID: s.collection.ID, Name: name}
		if err := s.screens.CreateScreen(sc); err != nil {
			return fmt.Errorf("register screen: %w", err)
		}
		p, _ := sess.PlaceNode(id, name)
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		node = &domain.ScreenNode{ID: id, Name: name, Position: p}
		s.emitter.Emit(ctx, EventBoardChanged, s.stateLocked())
		return nil
	})
	return node, err
}

// RemoveScreen drops a screen. Its connections are kept and stop being
// drawn.
func (s *BoardService) RemoveScreen(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.locked(func(sess *canvas.Session) error {
		if !sess.RemoveNode(id) {
			return nil
		}
		removed = true
		if err := s.screens.DeleteScreen(s.collection.ID, id); err != nil {
			return fmt.Errorf("remove screen: %w", err)
		}
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		s.emitter.Emit(ctx, EventBoardChanged, s.stateLocked())
		return nil
	})
	return removed, err
}

// ── Pointer gestures ───────────────────────────────────────

func (s *BoardService) PointerDown(ctx context.Context, p canvas.Point, b canvas.Button, mods canvas.Modifiers) (canvas.PointerResult, error) {
	var res canvas.PointerResult
	err := s.locked(func(sess *canvas.Session) error {
		if sess.Gesture() == canvas.GestureNone {
			s.preGesture = sess.Positions()
		}
		res = sess.PointerDown(p, b, mods)
		return nil
	})
	return res, err
}

func (s *BoardService) PointerMove(ctx context.Context, p canvas.Point) (canvas.PointerResult, error) {
	var res canvas.PointerResult
	err := s.locked(func(sess *canvas.Session) error {
		res = sess.PointerMove(p)
		switch {
		case res.Gesture == canvas.GestureNode && !res.Aborted:
			s.emitter.Emit(ctx, EventPositionsChanged, sess.Positions())
			s.emitter.Emit(ctx, EventGuides, res.Guides)
		case res.CameraChanged:
			s.emitter.Emit(ctx, EventCameraChanged, sess.Camera())
		}
		return nil
	})
	return res, err
}

// PointerUp ends the gesture and persists what it changed.
func (s *BoardService) PointerUp(ctx context.Context, mods canvas.Modifiers) (canvas.PointerResult, error) {
	var res canvas.PointerResult
	err := s.locked(func(sess *canvas.Session) error {
		res = sess.PointerUp(mods)
		before := s.preGesture
		s.preGesture = nil

		if len(res.Moved) > 0 {
			if err := s.savePositionsLocked(ctx); err != nil {
				return err
			}
			if s.recordDrags {
				s.recordLocked(ctx, fmt.Sprintf("drag %d screen(s)", len(res.Moved)), before)
			}
			s.emitter.Emit(ctx, EventPositionsChanged, sess.Positions())
			s.emitter.Emit(ctx, EventGuides, []canvas.Guide{})
		}
		if res.CameraChanged {
			if err := s.cameraChangedLocked(ctx); err != nil {
				return err
			}
		}
		if res.SelectionChanged {
			s.emitSelectionLocked(ctx)
		}
		return nil
	})
	return res, err
}

// Escape cancels the active gesture or pending connection.
func (s *BoardService) Escape(ctx context.Context) (bool, error) {
	cancelled := false
	err := s.locked(func(sess *canvas.Session) error {
		cancelled = sess.Escape()
		s.preGesture = nil
		if cancelled {
			s.emitter.Emit(ctx, EventBoardChanged, s.stateLocked())
		}
		return nil
	})
	return cancelled, err
}

// ── Layout ─────────────────────────────────────────────────

// ApplyLayout arranges every screen with the named strategy.
func (s *BoardService) ApplyLayout(ctx context.Context, strategy string) (map[string]canvas.Point, error) {
	var positions map[string]canvas.Point
	err := s.locked(func(sess *canvas.Session) error {
		before := sess.Positions()
		var err error
		positions, err = sess.ApplyLayout(strategy)
		if err != nil {
			return fmt.Errorf("apply layout: %w", err)
		}
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		s.recordLocked(ctx, "layout "+strategy, before)
		s.emitter.Emit(ctx, EventPositionsChanged, positions)
		return nil
	})
	return positions, err
}

// ResetNodePosition moves one screen back to its tight-layout slot.
func (s *BoardService) ResetNodePosition(ctx context.Context, id string) (canvas.Point, bool, error) {
	var p canvas.Point
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		before := sess.Positions()
		if p, ok = sess.ResetNodePosition(id); !ok {
			return nil
		}
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		s.recordLocked(ctx, "reset "+id, before)
		s.emitter.Emit(ctx, EventPositionsChanged, sess.Positions())
		return nil
	})
	return p, ok, err
}

// MoveNodes translates screens by a world delta.
func (s *BoardService) MoveNodes(ctx context.Context, ids []string, delta canvas.Point) (map[string]canvas.Point, error) {
	var moved map[string]canvas.Point
	err := s.locked(func(sess *canvas.Session) error {
		before := sess.Positions()
		moved = sess.MoveNodes(ids, delta)
		if len(moved) == 0 {
			return nil
		}
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		s.recordLocked(ctx, fmt.Sprintf("move %d screen(s)", len(moved)), before)
		s.emitter.Emit(ctx, EventPositionsChanged, sess.Positions())
		return nil
	})
	return moved, err
}

// RestoreLayout writes a history entry's positions back to the board.
func (s *BoardService) RestoreLayout(ctx context.Context, entryID string) (map[string]canvas.Point, error) {
	if s.history == nil {
		return nil, errors.New("restore layout: history disabled")
	}
	var positions map[string]canvas.Point
	err := s.locked(func(sess *canvas.Session) error {
		e, err := s.history.Entry(entryID)
		if err != nil {
			return fmt.Errorf("restore layout: %w", err)
		}
		if e.CollectionID != s.collection.ID {
			return fmt.Errorf("restore layout: entry %s belongs to another collection", entryID)
		}
		sess.RestorePositions(e.Positions)
		if err := s.savePositionsLocked(ctx); err != nil {
			return err
		}
		if err := s.history.GoTo(ctx, s.collection.ID, entryID); err != nil {
			return err
		}
		positions = sess.Positions()
		s.emitter.Emit(ctx, EventPositionsChanged, positions)
		return nil
	})
	return positions, err
}

// History returns the layout history of the open collection.
func (s *BoardService) History() (*storage.HistoryTree, error) {
	if s.history == nil {
		return nil, nil
	}
	var tree *storage.HistoryTree
	err := s.locked(func(*canvas.Session) error {
		var err error
		tree, err = s.history.Tree(s.collection.ID)
		return err
	})
	return tree, err
}

// ── Camera ─────────────────────────────────────────────────

// FitToContent frames every screen. Returns false on an empty board.
func (s *BoardService) FitToContent(ctx context.Context) (canvas.Camera, bool, error) {
	return s.camera(ctx, func(sess *canvas.Session) bool { return sess.FitToContent() })
}

func (s *BoardService) SetZoom(ctx context.Context, z float64) (canvas.Camera, error) {
	cam, _, err := s.camera(ctx, func(sess *canvas.Session) bool {
		sess.SetZoom(z)
		return true
	})
	return cam, err
}

func (s *BoardService) ZoomAt(ctx context.Context, p canvas.Point, factor float64) (canvas.Camera, error) {
	cam, _, err := s.camera(ctx, func(sess *canvas.Session) bool {
		sess.ZoomAt(p, factor)
		return true
	})
	return cam, err
}

func (s *BoardService) Wheel(ctx context.Context, p canvas.Point, deltaY float64) (canvas.Camera, error) {
	cam, _, err := s.camera(ctx, func(sess *canvas.Session) bool {
		sess.Wheel(p, deltaY)
		return true
	})
	return cam, err
}

func (s *BoardService) PanBy(ctx context.Context, delta canvas.Point) (canvas.Camera, error) {
	cam, _, err := s.camera(ctx, func(sess *canvas.Session) bool {
		sess.PanBy(delta)
		return true
	})
	return cam, err
}

// MinimapNavigate centres the camera on a minimap click.
func (s *BoardService) MinimapNavigate(ctx context.Context, pt canvas.Point) (canvas.Camera, bool, error) {
	return s.camera(ctx, func(sess *canvas.Session) bool { return sess.MinimapNavigate(pt) })
}

// camera runs a camera command and persists the result when it applied.
func (s *BoardService) camera(ctx context.Context, fn func(*canvas.Session) bool) (canvas.Camera, bool, error) {
	var cam canvas.Camera
	applied := false
	err := s.locked(func(sess *canvas.Session) error {
		applied = fn(sess)
		cam = sess.Camera()
		if !applied {
			return nil
		}
		return s.cameraChangedLocked(ctx)
	})
	return cam, applied, err
}

// SetViewport records the canvas size used for fit and zoom anchoring.
func (s *BoardService) SetViewport(size canvas.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size.Width > 0 && size.Height > 0 {
		s.cfg.Viewport = size
	}
	if s.session != nil {
		s.session.SetViewport(size)
	}
	return nil
}

// ── Snapping ───────────────────────────────────────────────

// ToggleGridSnap flips grid snapping for the open collection.
func (s *BoardService) ToggleGridSnap(ctx context.Context) (bool, error) {
	on := false
	err := s.locked(func(sess *canvas.Session) error {
		on = sess.ToggleGridSnap()
		if err := s.saveCameraLocked(); err != nil {
			return err
		}
		s.emitter.Emit(ctx, EventBoardChanged, s.stateLocked())
		return nil
	})
	return on, err
}

// ApplySnapSettings updates alignment, grid size and threshold for new and
// open sessions. The open collection keeps its own grid snap toggle.
func (s *BoardService) ApplySnapSettings(opts canvas.SnapOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Snap = opts
	if s.session != nil {
		opts.GridSnap = s.session.SnapOptions().GridSnap
		s.session.SetSnapOptions(opts)
	}
}

func (s *BoardService) snapDefaults() canvas.SnapOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Snap
}

// ── Selection ──────────────────────────────────────────────

func (s *BoardService) SelectNodes(ctx context.Context, ids []string) ([]string, error) {
	var selected []string
	err := s.locked(func(sess *canvas.Session) error {
		selected = sess.SelectNodes(ids)
		s.emitSelectionLocked(ctx)
		return nil
	})
	return selected, err
}

func (s *BoardService) ClearSelection(ctx context.Context) error {
	return s.locked(func(sess *canvas.Session) error {
		sess.ClearSelection()
		s.emitSelectionLocked(ctx)
		return nil
	})
}

func (s *BoardService) BringToFront(id string) (bool, error) {
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		ok = sess.BringToFront(id)
		return nil
	})
	return ok, err
}

// SetLive marks a screen as showing interactive content.
func (s *BoardService) SetLive(id string, live bool) (bool, error) {
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		ok = sess.SetLive(id, live)
		return nil
	})
	return ok, err
}

// ── Connections ────────────────────────────────────────────

func (s *BoardService) Connections() ([]ConnectionInfo, error) {
	var out []ConnectionInfo
	err := s.locked(func(sess *canvas.Session) error {
		visible := make(map[int]bool)
		for _, e := range sess.Edges() {
			visible[e.Index] = true
		}
		conns := sess.Connections()
		out = make([]ConnectionInfo, len(conns))
		for i, c := range conns {
			out[i] = ConnectionInfo{Index: i, Connection: c, DisplayLabel: canvas.DisplayLabel(c), Visible: visible[i]}
		}
		return nil
	})
	return out, err
}

// StartConnection picks the source screen of a new connection.
func (s *BoardService) StartConnection(from string) (bool, error) {
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		ok = sess.StartConnection(from)
		return nil
	})
	return ok, err
}

func (s *BoardService) CancelConnection() error {
	return s.locked(func(sess *canvas.Session) error {
		sess.CancelConnection()
		return nil
	})
}

// CompleteConnection connects the picked source to to. An empty type means
// tap; an unknown type is an error.
func (s *BoardService) CompleteConnection(ctx context.Context, to, typ string) (int, bool, error) {
	t, err := canvas.ParseConnectionType(typ)
	if err != nil {
		return -1, false, fmt.Errorf("complete connection: %w", err)
	}
	idx, ok := -1, false
	err = s.locked(func(sess *canvas.Session) error {
		if idx, ok = sess.CompleteConnection(to, t); !ok {
			return nil
		}
		return s.connectionsChangedLocked(ctx)
	})
	return idx, ok, err
}

// AddConnection connects two screens directly.
func (s *BoardService) AddConnection(ctx context.Context, from, to, typ string) (int, bool, error) {
	t, err := canvas.ParseConnectionType(typ)
	if err != nil {
		return -1, false, fmt.Errorf("add connection: %w", err)
	}
	idx, ok := -1, false
	err = s.locked(func(sess *canvas.Session) error {
		if idx, ok = sess.AddConnection(from, to, t); !ok {
			return nil
		}
		return s.connectionsChangedLocked(ctx)
	})
	return idx, ok, err
}

// UpdateConnection patches edge index and emits only that edge.
func (s *BoardService) UpdateConnection(ctx context.Context, index int, in ConnectionPatchInput) (*canvas.RenderedEdge, bool, error) {
	var patch canvas.ConnectionPatch
	if in.Type != nil {
		t, err := canvas.ParseConnectionType(*in.Type)
		if err != nil {
			return nil, false, fmt.Errorf("update connection: %w", err)
		}
		patch.Type = &t
	}
	patch.Label = in.Label

	var edge *canvas.RenderedEdge
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		if edge, ok = sess.UpdateConnection(index, patch); !ok {
			return nil
		}
		if err := s.saveConnectionsLocked(ctx); err != nil {
			return err
		}
		if edge != nil {
			s.emitter.Emit(ctx, EventConnectionUpdated, edge)
		}
		return nil
	})
	return edge, ok, err
}

func (s *BoardService) DeleteConnection(ctx context.Context, index int) (bool, error) {
	ok := false
	err := s.locked(func(sess *canvas.Session) error {
		if ok = sess.DeleteConnection(index); !ok {
			return nil
		}
		return s.connectionsChangedLocked(ctx)
	})
	return ok, err
}

func (s *BoardService) ClearConnections(ctx context.Context) (int, error) {
	n := 0
	err := s.locked(func(sess *canvas.Session) error {
		if n = sess.ClearConnections(); n == 0 {
			return nil
		}
		return s.connectionsChangedLocked(ctx)
	})
	return n, err
}

// ── helpers (mu held) ──────────────────────────────────────

func (s *BoardService) locked(fn func(sess *canvas.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNoCollection
	}
	return fn(s.session)
}

func (s *BoardService) stateLocked() *domain.BoardState {
	snap := s.session.Snapshot()
	c := *s.collection
	c.PanX, c.PanY, c.Zoom = snap.Camera.Pan.X, snap.Camera.Pan.Y, snap.Camera.Zoom
	c.GridSnap = snap.GridSnap
	return &domain.BoardState{
		Collection:  c,
		Nodes:       snap.Nodes,
		Connections: snap.Connections,
		Selected:    snap.Selected,
		Primary:     snap.Primary,
	}
}

func (s *BoardService) savePositionsLocked(ctx context.Context) error {
	if err := s.layouts.SavePositions(ctx, s.collection.ID, s.session.Positions()); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

func (s *BoardService) saveConnectionsLocked(ctx context.Context) error {
	if err := s.layouts.SaveConnections(ctx, s.collection.ID, s.session.Connections()); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	return nil
}

// saveCameraLocked writes camera and grid snap to the collection row.
func (s *BoardService) saveCameraLocked() error {
	cam := s.session.Camera()
	s.collection.PanX, s.collection.PanY, s.collection.Zoom = cam.Pan.X, cam.Pan.Y, cam.Zoom
	s.collection.GridSnap = s.session.SnapOptions().GridSnap
	if err := s.collections.UpdateCollection(s.collection); err != nil {
		return fmt.Errorf("save camera: %w", err)
	}
	return nil
}

func (s *BoardService) cameraChangedLocked(ctx context.Context) error {
	if err := s.saveCameraLocked(); err != nil {
		return err
	}
	s.emitter.Emit(ctx, EventCameraChanged, s.session.Camera())
	return nil
}

func (s *BoardService) connectionsChangedLocked(ctx context.Context) error {
	if err := s.saveConnectionsLocked(ctx); err != nil {
		return err
	}
	s.emitter.Emit(ctx, EventConnectionsChanged, s.session.Edges())
	return nil
}

func (s *BoardService) emitSelectionLocked(ctx context.Context) {
	s.emitter.Emit(ctx, EventSelectionChanged, map[string]any{
		"selected": s.session.Selected(),
		"primary":  s.session.Primary(),
	})
}

// recordLocked stores a history entry. History failures are logged, not
// returned; the layout itself has already been saved.
func (s *BoardService) recordLocked(ctx context.Context, label string, before map[string]canvas.Point) {
	if s.history == nil || before == nil {
		return
	}
	if _, err := s.history.Record(ctx, s.collection.ID, label, before, s.session.Positions()); err != nil {
		s.logger.Warn("record layout history", "collection", s.collection.ID, "err", err)
	}
}
