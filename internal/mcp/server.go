package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mockboard/internal/service"
)

// Server is the MCP server for the mockboard canvas.
// It exposes the board commands as tools so agents can arrange screens and
// draw the navigation flow the same way a user does with the mouse.
type Server struct {
	mcp    *server.MCPServer
	board  *service.BoardService
	logger *log.Logger
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Board  *service.BoardService
	Logger *log.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		board:  deps.Board,
		logger: logger.WithPrefix("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"mockboard-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerCollectionTools()
	s.registerBoardTools()
	s.registerConnectionTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// logCall records a tool call at debug level.
func (s *Server) logCall(tool string, kv ...any) {
	s.logger.Debug("tool call", append([]any{"tool", tool}, kv...)...)
}
