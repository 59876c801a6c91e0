package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"mockboard/internal/service"
)

const connectionTypesHelp = "Connection type: tap, swipe, auto, back, link"

func (s *Server) registerConnectionTools() {
	// ── list_connections ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_connections",
		mcp.WithDescription("List every stored connection with its index. Connections whose screens are gone are listed with visible=false."),
	), s.handleListConnections)

	// ── start_connection ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("start_connection",
		mcp.WithDescription("Pick the source screen of a new connection. Finish with complete_connection."),
		mcp.WithString("from", mcp.Description("Source screen ID"), mcp.Required()),
	), s.handleStartConnection)

	// ── complete_connection ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("complete_connection",
		mcp.WithDescription("Connect the picked source screen to a target screen"),
		mcp.WithString("to", mcp.Description("Target screen ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description(connectionTypesHelp+" (default tap)")),
	), s.handleCompleteConnection)

	// ── update_connection ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_connection",
		mcp.WithDescription("Change the type and/or label of a connection"),
		mcp.WithNumber("index", mcp.Description("Connection index from list_connections"), mcp.Required()),
		mcp.WithString("type", mcp.Description(connectionTypesHelp)),
		mcp.WithString("label", mcp.Description("Custom label, empty to use the type name")),
	), s.handleUpdateConnection)

	// ── delete_connection (destructive) ────────────────
	s.mcp.AddTool(mcp.NewTool("delete_connection",
		mcp.WithDescription("Delete one connection. Later indices shift down by one."),
		mcp.WithNumber("index", mcp.Description("Connection index from list_connections"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteConnection)

	// ── clear_connections (destructive) ────────────────
	s.mcp.AddTool(mcp.NewTool("clear_connections",
		mcp.WithDescription("Delete every connection of the open collection"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearConnections)
}

func (s *Server) handleListConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conns, err := s.board.Connections()
	if err != nil {
		return nil, err
	}
	return jsonResult(conns)
}

func (s *Server) handleStartConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := requireString(req.GetArguments(), "from")
	if err != nil {
		return nil, err
	}
	ok, err := s.board.StartConnection(from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("screen %s is not on the board", from)
	}
	return textResult(fmt.Sprintf("Connection started from %s", from)), nil
}

func (s *Server) handleCompleteConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	to, err := requireString(args, "to")
	if err != nil {
		return nil, err
	}
	typ, _ := args["type"].(string)
	s.logCall("complete_connection", "to", to, "type", typ)

	idx, ok, err := s.board.CompleteConnection(ctx, to, typ)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no connection started or screen %s is not on the board", to)
	}
	return jsonResult(map[string]int{"index": idx})
}

func (s *Server) handleUpdateConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	idx, err := requireIndex(args, "index")
	if err != nil {
		return nil, err
	}
	patch := service.ConnectionPatchInput{
		Type:  optionalString(args, "type"),
		Label: optionalString(args, "label"),
	}
	edge, ok, err := s.board.UpdateConnection(ctx, idx, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("connection %d does not exist", idx)
	}
	if edge == nil {
		return textResult(fmt.Sprintf("Connection %d updated (not drawn, a screen is missing)", idx)), nil
	}
	return jsonResult(edge)
}

func (s *Server) handleDeleteConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, err := requireIndex(req.GetArguments(), "index")
	if err != nil {
		return nil, err
	}
	s.logCall("delete_connection", "index", idx)
	ok, err := s.board.DeleteConnection(ctx, idx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("connection %d does not exist", idx)
	}
	return textResult(fmt.Sprintf("Connection %d deleted", idx)), nil
}

func (s *Server) handleClearConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.board.ClearConnections(ctx)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted %d connection(s)", n)), nil
}
