package app

import (
	"mockboard/internal/canvas"
	"mockboard/internal/service"
)

// ============================================================
// Connections
// ============================================================

func (a *App) ListConnections() ([]service.ConnectionInfo, error) {
	return a.board.Connections()
}

func (a *App) StartConnection(from string) (bool, error) {
	return a.board.StartConnection(from)
}

func (a *App) CancelConnection() error {
	return a.board.CancelConnection()
}

// CompleteConnection returns the new connection's index, or -1 when no
// connection was pending or the target is gone.
func (a *App) CompleteConnection(to, connType string) (int, error) {
	idx, _, err := a.board.CompleteConnection(a.ctx, to, connType)
	return idx, err
}

func (a *App) AddConnection(from, to, connType string) (int, error) {
	idx, _, err := a.board.AddConnection(a.ctx, from, to, connType)
	return idx, err
}

func (a *App) UpdateConnection(index int, patch service.ConnectionPatchInput) (*canvas.RenderedEdge, error) {
	edge, _, err := a.board.UpdateConnection(a.ctx, index, patch)
	return edge, err
}

func (a *App) DeleteConnection(index int) (bool, error) {
	return a.board.DeleteConnection(a.ctx, index)
}

func (a *App) ClearConnections() (int, error) {
	return a.board.ClearConnections(a.ctx)
}
