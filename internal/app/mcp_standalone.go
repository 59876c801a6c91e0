package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"mockboard/internal/config"
	mcpserver "mockboard/internal/mcp"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the board as a standalone MCP server on stdin/stdout with no
// GUI. A running GUI sharing the database notices the writes through its
// board watcher.
func ServeMCP(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	stack, err := OpenStack(ctx, cfg, noopEmitter{}, logger)
	if err != nil {
		return err
	}
	defer stack.Close(context.Background())

	if err := stack.StartPruning(ctx, cfg.History.PruneSchedule); err != nil {
		logger.Warn("history pruning disabled", "err", err)
	}

	srv := mcpserver.New(mcpserver.Deps{Board: stack.Board, Logger: logger})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}
