package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerCollectionTools() {
	// ── list_collections ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_collections",
		mcp.WithDescription("List all screen collections"),
	), s.handleListCollections)

	// ── create_collection ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_collection",
		mcp.WithDescription("Create an empty collection and open it"),
		mcp.WithString("name",
			mcp.Description("Name of the collection, usually the app name"),
			mcp.Required(),
		),
	), s.handleCreateCollection)

	// ── open_collection ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_collection",
		mcp.WithDescription("Open a collection on the board. Board tools act on the open collection."),
		mcp.WithString("collectionId",
			mcp.Description("ID of the collection to open"),
			mcp.Required(),
		),
	), s.handleOpenCollection)
}

func (s *Server) handleListCollections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collections, err := s.board.ListCollections()
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return jsonResult(collections)
}

func (s *Server) handleCreateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req.GetArguments(), "name")
	if err != nil {
		return nil, err
	}
	s.logCall("create_collection", "name", name)
	c, err := s.board.CreateCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	// Auto-open the new collection
	if _, err := s.board.OpenCollection(ctx, c.ID); err != nil {
		return nil, err
	}
	return jsonResult(c)
}

func (s *Server) handleOpenCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "collectionId")
	if err != nil {
		return nil, err
	}
	s.logCall("open_collection", "id", id)
	state, err := s.board.OpenCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(state)
}
