package app

import (
	"context"

	"github.com/charmbracelet/log"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"mockboard/internal/config"
	"mockboard/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	cfg     *config.Config
	cfgPath string
	logger  *log.Logger

	stack   *Stack
	board   *service.BoardService
	watcher *config.Watcher
	boardW  *boardWatcher
}

// New creates a new App. The stack is opened in Startup.
func New(cfg *config.Config, cfgPath string, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// wailsEmitter forwards service events to the frontend and marks them as
// local writes for the board watcher.
type wailsEmitter struct {
	ctx     context.Context
	watcher *boardWatcher
	send    func(ctx context.Context, event string, data ...interface{})
}

func newWailsEmitter(ctx context.Context, watcher *boardWatcher) wailsEmitter {
	return wailsEmitter{ctx: ctx, watcher: watcher, send: wailsRuntime.EventsEmit}
}

func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	e.watcher.markLocal()
	e.send(e.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	a.boardW = newBoardWatcher(ctx, nil, nil, func(event string, data any) {
		wailsRuntime.EventsEmit(ctx, event, data)
	})
	stack, err := OpenStack(ctx, a.cfg, newWailsEmitter(ctx, a.boardW), a.logger)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open storage: %v", err)
		return
	}
	a.stack = stack
	a.board = stack.Board

	if err := stack.StartPruning(ctx, a.cfg.History.PruneSchedule); err != nil {
		wailsRuntime.LogErrorf(ctx, "History pruning disabled: %v", err)
	}

	// Config hot reload: snapping and history settings apply to the open board
	w, err := config.Watch(a.cfgPath, a.cfg, func(cfg *config.Config) {
		stack.ApplyConfig(ctx, cfg)
		wailsRuntime.EventsEmit(ctx, "config:reloaded", cfg)
	}, a.logger)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Config watcher disabled: %v", err)
	}
	a.watcher = w

	a.boardW.bind(stack.Collections, a.board.CurrentCollection)
	a.boardW.Start()

	size := stack.Settings.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)

	if last := stack.Settings.LastCollection(); last != "" {
		if _, err := a.board.OpenCollection(ctx, last); err != nil {
			wailsRuntime.LogWarningf(ctx, "Could not reopen collection %s: %v", last, err)
		} else {
			wailsRuntime.LogInfof(ctx, "Reopened collection %s", last)
		}
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.boardW != nil {
		a.boardW.Stop()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.stack == nil {
		return
	}

	w, h := wailsRuntime.WindowGetSize(ctx)
	if err := a.stack.Settings.SaveWindowSize(w, h); err != nil {
		wailsRuntime.LogErrorf(ctx, "Save window size: %v", err)
	}
	if err := a.stack.Settings.SaveLastCollection(a.board.CurrentCollection()); err != nil {
		wailsRuntime.LogErrorf(ctx, "Save last collection: %v", err)
	}
	if err := a.stack.Close(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Close storage: %v", err)
	}
}

// ============================================================
// Window
// ============================================================

// LoadWindowSize returns the saved window dimensions.
func (a *App) LoadWindowSize() service.WindowSize {
	return a.stack.Settings.LoadWindowSize()
}

func (a *App) SaveWindowSize(width, height int) error {
	return a.stack.Settings.SaveWindowSize(width, height)
}
