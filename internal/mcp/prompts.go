package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("map_user_flow",
		mcp.WithPromptDescription("Lay out a collection's screens and connect them into a navigation flow"),
		mcp.WithArgument("flow",
			mcp.ArgumentDescription("The user journey to map, e.g. \"sign up then checkout\""),
			mcp.RequiredArgument(),
		),
	), s.handleMapUserFlowPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_board",
		mcp.WithPromptDescription("Pick a layout for the open board and frame it"),
	), s.handleTidyBoardPrompt)
}

func (s *Server) handleMapUserFlowPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	flow := req.Params.Arguments["flow"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Map the flow: %s", flow),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Map the user flow "%s" on the open board. Follow these steps:

1. Use get_board to see which screens exist and where they are.
2. Register any missing screen with register_screen.
3. Apply the "flow" layout with apply_layout so the journey reads left to right.
4. For each step of the journey, call start_connection on the source screen and
   complete_connection on the target. Use "tap" for buttons, "swipe" for gestures,
   "auto" for timed transitions, "back" for returning and "link" for deep links.
5. Label connections with update_connection where the trigger is not obvious.
6. Finish with fit_to_content.`, flow),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyBoardPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tidy the open board",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Tidy the open board:

1. Use get_board and list_connections to understand the screens and their links.
2. Use "tight" for a short linear journey, "flow" when connections mostly go
   forward one step, and "grid" for large collections with few connections.
3. Apply it with apply_layout, then call fit_to_content.
4. If the result is worse, use layout_history and restore_layout to go back.`,
				},
			},
		},
	}, nil
}
