package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"mockboard/internal/canvas"
)

func (s *Server) registerBoardTools() {
	// ── get_board ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Get the open board: screen positions, drawable connections with their paths, selection, camera and grid snap state"),
	), s.handleGetBoard)

	// ── get_minimap ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_minimap",
		mcp.WithDescription("Get the minimap projection of the open board"),
	), s.handleGetMinimap)

	// ── register_screen ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("register_screen",
		mcp.WithDescription("Add a screen to the open collection. It is placed in the first free slot."),
		mcp.WithString("name", mcp.Description("Screen title"), mcp.Required()),
		mcp.WithString("screenId", mcp.Description("Screen ID (optional, generated if omitted)")),
	), s.handleRegisterScreen)

	// ── apply_layout ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_layout",
		mcp.WithDescription("Arrange every screen with a layout strategy"),
		mcp.WithString("strategy",
			mcp.Description("Layout strategy: "+strings.Join(canvas.Layouts, ", ")),
			mcp.Required(),
		),
	), s.handleApplyLayout)

	// ── fit_to_content ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("fit_to_content",
		mcp.WithDescription("Zoom and pan so every screen is visible"),
	), s.handleFitToContent)

	// ── set_zoom ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_zoom",
		mcp.WithDescription(fmt.Sprintf("Set the zoom level around the viewport centre. Clamped to [%g, %g].", canvas.MinZoom, canvas.MaxZoom)),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor, 1 is 100%"), mcp.Required()),
	), s.handleSetZoom)

	// ── toggle_grid_snap ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_grid_snap",
		mcp.WithDescription("Toggle snapping dragged screens to the grid"),
	), s.handleToggleGridSnap)

	// ── reset_node_position ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reset_node_position",
		mcp.WithDescription("Move one screen back to its slot in the tight layout"),
		mcp.WithString("screenId", mcp.Description("Screen ID"), mcp.Required()),
	), s.handleResetNodePosition)

	// ── move_nodes ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_nodes",
		mcp.WithDescription("Move screens by a relative offset (dx, dy) in world units"),
		mcp.WithString("screenIds",
			mcp.Description("Comma-separated screen IDs"),
			mcp.Required(),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleMoveNodes)

	// ── layout_history ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("layout_history",
		mcp.WithDescription("List the saved layout snapshots of the open collection"),
	), s.handleLayoutHistory)

	// ── restore_layout ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_layout",
		mcp.WithDescription("Restore screen positions from a layout history entry"),
		mcp.WithString("entryId", mcp.Description("History entry ID"), mcp.Required()),
	), s.handleRestoreLayout)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleGetBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.board.Render()
	if err != nil {
		return nil, err
	}
	return jsonResult(snap)
}

func (s *Server) handleGetMinimap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proj, err := s.board.Minimap()
	if err != nil {
		return nil, err
	}
	return jsonResult(proj)
}

func (s *Server) handleRegisterScreen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	id, _ := args["screenId"].(string)
	s.logCall("register_screen", "id", id, "name", name)

	node, err := s.board.RegisterScreen(ctx, id, name)
	if err != nil {
		return nil, err
	}
	return jsonResult(node)
}

func (s *Server) handleApplyLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy, err := requireString(req.GetArguments(), "strategy")
	if err != nil {
		return nil, err
	}
	s.logCall("apply_layout", "strategy", strategy)
	positions, err := s.board.ApplyLayout(ctx, strategy)
	if err != nil {
		return nil, err
	}
	return jsonResult(positions)
}

func (s *Server) handleFitToContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cam, ok, err := s.board.FitToContent(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("Board is empty, camera unchanged"), nil
	}
	return jsonResult(cam)
}

func (s *Server) handleSetZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	z, ok := args["zoom"].(float64)
	if !ok {
		return nil, fmt.Errorf("zoom is required")
	}
	cam, err := s.board.SetZoom(ctx, z)
	if err != nil {
		return nil, err
	}
	return jsonResult(cam)
}

func (s *Server) handleToggleGridSnap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	on, err := s.board.ToggleGridSnap(ctx)
	if err != nil {
		return nil, err
	}
	if on {
		return textResult("Grid snap on"), nil
	}
	return textResult("Grid snap off"), nil
}

func (s *Server) handleResetNodePosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "screenId")
	if err != nil {
		return nil, err
	}
	p, ok, err := s.board.ResetNodePosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult(fmt.Sprintf("Screen %s is not on the board", id)), nil
	}
	return jsonResult(p)
}

func (s *Server) handleMoveNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	raw, err := requireString(args, "screenIds")
	if err != nil {
		return nil, err
	}
	ids := splitIDs(raw)
	delta := canvas.Point{X: getFloat(args, "dx", 0), Y: getFloat(args, "dy", 0)}
	s.logCall("move_nodes", "count", len(ids), "dx", delta.X, "dy", delta.Y)

	moved, err := s.board.MoveNodes(ctx, ids, delta)
	if err != nil {
		return nil, err
	}
	return jsonResult(moved)
}

func (s *Server) handleLayoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := s.board.History()
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return textResult("No layout history yet"), nil
	}

	type entrySummary struct {
		ID      string `json:"id"`
		Label   string `json:"label"`
		Screens int    `json:"screens"`
		Current bool   `json:"current"`
	}
	out := make([]entrySummary, len(tree.Entries))
	for i, e := range tree.Entries {
		out[i] = entrySummary{ID: e.ID, Label: e.Label, Screens: len(e.Positions), Current: e.ID == tree.CurrentID}
	}
	return jsonResult(out)
}

func (s *Server) handleRestoreLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "entryId")
	if err != nil {
		return nil, err
	}
	s.logCall("restore_layout", "entry", id)
	positions, err := s.board.RestoreLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(positions)
}
