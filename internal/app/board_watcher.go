package app

import (
	"context"
	"sync"
	"time"
)

// Events emitted when another process changed the shared database.
const (
	EventExternalBoardChange       = "mcp:board-changed"
	EventExternalCollectionsChange = "mcp:collections-changed"
)

// revisionSource fingerprints stored collections.
type revisionSource interface {
	Revision(id string) (string, error)
	ListRevision() (string, error)
}

// boardWatcher polls the database for changes to the open collection made
// by another process (e.g. a standalone MCP server) and emits events so
// the frontend reloads. Changes made by this process are ignored: every
// local emission marks the next fingerprint as our own.
type boardWatcher struct {
	ctx      context.Context
	source   revisionSource
	current  func() string // open collection id, "" when none
	emit     func(event string, data any)
	interval time.Duration

	mu           sync.Mutex
	collectionID string
	lastBoard    string
	lastList     string
	local        bool
	stopCh       chan struct{}
}

func newBoardWatcher(ctx context.Context, source revisionSource, current func() string, emit func(string, any)) *boardWatcher {
	return &boardWatcher{
		ctx:      ctx,
		source:   source,
		current:  current,
		emit:     emit,
		interval: 2 * time.Second,
	}
}

// bind sets the stores to poll. The GUI creates the watcher before the
// stack exists so service events can mark local writes from the start.
func (w *boardWatcher) bind(source revisionSource, current func() string) {
	w.mu.Lock()
	w.source, w.current = source, current
	w.mu.Unlock()
}

// markLocal records that this process just wrote to the database.
func (w *boardWatcher) markLocal() {
	w.mu.Lock()
	w.local = true
	w.mu.Unlock()
}

// Start begins the polling loop. Should be called once on app startup.
func (w *boardWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *boardWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *boardWatcher) pollLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	stop := w.stopCh
	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *boardWatcher) check() {
	w.mu.Lock()
	source, current := w.source, w.current
	w.mu.Unlock()
	if source == nil || current == nil {
		return
	}
	id := current()

	var boardRev string
	if id != "" {
		rev, err := source.Revision(id)
		if err != nil {
			return
		}
		boardRev = rev
	}
	listRev, err := source.ListRevision()
	if err != nil {
		return
	}

	w.mu.Lock()
	if id != w.collectionID {
		// Switched collections: start a fresh baseline
		w.collectionID = id
		w.lastBoard = ""
	}
	local := w.local
	w.local = false
	boardChanged := !local && w.lastBoard != "" && w.lastBoard != boardRev
	listChanged := !local && w.lastList != "" && w.lastList != listRev
	w.lastBoard = boardRev
	w.lastList = listRev
	w.mu.Unlock()

	if boardChanged {
		w.emit(EventExternalBoardChange, map[string]string{"collectionId": id})
	}
	if listChanged {
		w.emit(EventExternalCollectionsChange, nil)
	}
}
