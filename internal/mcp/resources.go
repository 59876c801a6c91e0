package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"mockboard/internal/canvas"
)

const (
	collectionsURI = "mockboard://collections"
	boardURI       = "mockboard://board"
	legendURI      = "mockboard://legend"
)

func (s *Server) registerResources() {
	// ── mockboard://collections ────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		collectionsURI,
		"All Collections",
		mcp.WithMIMEType("application/json"),
	), s.handleCollectionsResource)

	// ── mockboard://board ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		boardURI,
		"Open Board",
		mcp.WithMIMEType("application/json"),
	), s.handleBoardResource)

	// ── mockboard://legend ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		legendURI,
		"Connection Legend",
		mcp.WithMIMEType("application/json"),
	), s.handleLegendResource)
}

func (s *Server) handleCollectionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	collections, err := s.board.ListCollections()
	if err != nil {
		return nil, err
	}

	type collectionSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	summaries := make([]collectionSummary, len(collections))
	for i, c := range collections {
		summaries[i] = collectionSummary{ID: c.ID, Name: c.Name}
	}
	return jsonResource(collectionsURI, summaries)
}

func (s *Server) handleBoardResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	state, err := s.board.Board()
	if err != nil {
		return nil, err
	}
	return jsonResource(boardURI, state)
}

func (s *Server) handleLegendResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(legendURI, canvas.Legend())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
