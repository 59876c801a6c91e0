package app

import (
	"mockboard/internal/canvas"
	"mockboard/internal/domain"
	"mockboard/internal/storage"
)

// ============================================================
// Collections
// ============================================================

func (a *App) ListCollections() ([]domain.Collection, error) {
	return a.board.ListCollections()
}

func (a *App) CreateCollection(name string) (*domain.Collection, error) {
	return a.board.CreateCollection(a.ctx, name)
}

func (a *App) DeleteCollection(id string) error {
	return a.board.DeleteCollection(a.ctx, id)
}

func (a *App) OpenCollection(id string) (*domain.BoardState, error) {
	return a.board.OpenCollection(a.ctx, id)
}

// ReloadCollection re-reads the open collection after an external change.
func (a *App) ReloadCollection() (*domain.BoardState, error) {
	return a.board.OpenCollection(a.ctx, a.board.CurrentCollection())
}

func (a *App) CloseCollection() error {
	return a.board.CloseCollection()
}

// GetBoard returns everything the canvas draws.
func (a *App) GetBoard() (*canvas.Snapshot, error) {
	return a.board.Render()
}

func (a *App) GetMinimap() (canvas.Projection, error) {
	return a.board.Minimap()
}

func (a *App) Legend() []canvas.LegendEntry {
	return canvas.Legend()
}

// ============================================================
// Screens
// ============================================================

func (a *App) RegisterScreen(id, name string) (*domain.ScreenNode, error) {
	return a.board.RegisterScreen(a.ctx, id, name)
}

func (a *App) RemoveScreen(id string) (bool, error) {
	return a.board.RemoveScreen(a.ctx, id)
}

// SetLive is called when a screen starts or stops showing interactive
// content so presses reach the content instead of dragging.
func (a *App) SetLive(id string, live bool) (bool, error) {
	return a.board.SetLive(id, live)
}

func (a *App) BringToFront(id string) (bool, error) {
	return a.board.BringToFront(id)
}

// ============================================================
// Pointer input (screen coordinates)
// ============================================================

func (a *App) PointerDown(x, y float64, button int, mods canvas.Modifiers) (canvas.PointerResult, error) {
	return a.board.PointerDown(a.ctx, canvas.Point{X: x, Y: y}, canvas.Button(button), mods)
}

func (a *App) PointerMove(x, y float64) (canvas.PointerResult, error) {
	return a.board.PointerMove(a.ctx, canvas.Point{X: x, Y: y})
}

func (a *App) PointerUp(mods canvas.Modifiers) (canvas.PointerResult, error) {
	return a.board.PointerUp(a.ctx, mods)
}

func (a *App) Escape() (bool, error) {
	return a.board.Escape(a.ctx)
}

// ============================================================
// Camera
// ============================================================

func (a *App) FitToContent() (canvas.Camera, error) {
	cam, _, err := a.board.FitToContent(a.ctx)
	return cam, err
}

func (a *App) SetZoom(z float64) (canvas.Camera, error) {
	return a.board.SetZoom(a.ctx, z)
}

// ZoomIn and ZoomOut step around the viewport centre.
func (a *App) ZoomIn() (canvas.Camera, error) {
	return a.zoomStep(1.2)
}

func (a *App) ZoomOut() (canvas.Camera, error) {
	return a.zoomStep(1 / 1.2)
}

func (a *App) zoomStep(factor float64) (canvas.Camera, error) {
	snap, err := a.board.Render()
	if err != nil {
		return canvas.Camera{}, err
	}
	return a.board.SetZoom(a.ctx, snap.Camera.Zoom*factor)
}

func (a *App) Wheel(x, y, deltaY float64) (canvas.Camera, error) {
	return a.board.Wheel(a.ctx, canvas.Point{X: x, Y: y}, deltaY)
}

func (a *App) PanBy(dx, dy float64) (canvas.Camera, error) {
	return a.board.PanBy(a.ctx, canvas.Point{X: dx, Y: dy})
}

// SetViewport is called by the frontend whenever the canvas element resizes.
func (a *App) SetViewport(width, height float64) error {
	return a.board.SetViewport(canvas.Size{Width: width, Height: height})
}

func (a *App) MinimapNavigate(x, y float64) (canvas.Camera, error) {
	cam, _, err := a.board.MinimapNavigate(a.ctx, canvas.Point{X: x, Y: y})
	return cam, err
}

// ============================================================
// Layout & selection
// ============================================================

func (a *App) ApplyLayout(strategy string) (map[string]canvas.Point, error) {
	return a.board.ApplyLayout(a.ctx, strategy)
}

func (a *App) ToggleGridSnap() (bool, error) {
	return a.board.ToggleGridSnap(a.ctx)
}

func (a *App) ResetNodePosition(id string) (canvas.Point, error) {
	p, _, err := a.board.ResetNodePosition(a.ctx, id)
	return p, err
}

func (a *App) MoveNodes(ids []string, dx, dy float64) (map[string]canvas.Point, error) {
	return a.board.MoveNodes(a.ctx, ids, canvas.Point{X: dx, Y: dy})
}

func (a *App) SelectNodes(ids []string) ([]string, error) {
	return a.board.SelectNodes(a.ctx, ids)
}

func (a *App) ClearSelection() error {
	return a.board.ClearSelection(a.ctx)
}

// ============================================================
// Layout history
// ============================================================

func (a *App) LayoutHistory() (*storage.HistoryTree, error) {
	return a.board.History()
}

func (a *App) RestoreLayout(entryID string) (map[string]canvas.Point, error) {
	return a.board.RestoreLayout(a.ctx, entryID)
}
