package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"mockboard/internal/domain"
	"mockboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// History Service: layout snapshots and scheduled pruning
// ─────────────────────────────────────────────────────────────

const pruneJobID = "history-prune"

// HistoryService records a position snapshot after every layout change so
// earlier arrangements can be restored. Old entries are pruned on a cron
// schedule.
type HistoryService struct {
	store   *storage.HistoryStore
	emitter EventEmitter
	logger  *log.Logger
	pruning jobRuns

	mu         sync.Mutex
	maxEntries int
	cronSched  *cron.Cron
}

// NewHistoryService creates a HistoryService keeping maxEntries per collection.
func NewHistoryService(store *storage.HistoryStore, maxEntries int, emitter EventEmitter, logger *log.Logger) *HistoryService {
	if logger == nil {
		logger = log.Default()
	}
	return &HistoryService{
		store:      store,
		emitter:    emitter,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// ── Snapshots ──────────────────────────────────────────────

// Record stores after as the newest entry. The first record of a collection
// also stores before as its "initial" root so the original arrangement can
// always be restored.
func (h *HistoryService) Record(ctx context.Context, collectionID, label string, before, after map[string]domain.Point) (*domain.HistoryEntry, error) {
	tree, err := h.store.LoadTree(collectionID)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	if tree == nil {
		if _, err := h.store.Push(collectionID, uuid.New().String(), "initial", before); err != nil {
			return nil, fmt.Errorf("record initial layout: %w", err)
		}
	}
	e, err := h.store.Push(collectionID, uuid.New().String(), label, after)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	h.emitter.Emit(ctx, EventHistoryChanged, collectionID)
	return e, nil
}

func (h *HistoryService) Tree(collectionID string) (*storage.HistoryTree, error) {
	return h.store.LoadTree(collectionID)
}

func (h *HistoryService) Entry(id string) (*domain.HistoryEntry, error) {
	return h.store.Get(id)
}

// GoTo marks id as the current entry of the collection.
func (h *HistoryService) GoTo(ctx context.Context, collectionID, id string) error {
	if err := h.store.GoTo(collectionID, id); err != nil {
		return fmt.Errorf("move history pointer: %w", err)
	}
	h.emitter.Emit(ctx, EventHistoryChanged, collectionID)
	return nil
}

func (h *HistoryService) Clear(ctx context.Context, collectionID string) error {
	if err := h.store.Clear(collectionID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.emitter.Emit(ctx, EventHistoryChanged, collectionID)
	return nil
}

// ── Pruning ────────────────────────────────────────────────

// SetMaxEntries changes the retention used by later prunes.
func (h *HistoryService) SetMaxEntries(n int) {
	if n <= 0 {
		return
	}
	h.mu.Lock()
	h.maxEntries = n
	h.mu.Unlock()
}

// PruneAll trims every collection's history to the retention limit. A call
// made while another prune is running returns immediately.
func (h *HistoryService) PruneAll(ctx context.Context) (int, error) {
	if !h.pruning.begin(pruneJobID) {
		h.logger.Debug("history prune already running")
		return 0, nil
	}
	defer h.pruning.end(pruneJobID)

	h.mu.Lock()
	limit := h.maxEntries
	h.mu.Unlock()

	ids, err := h.store.CollectionIDs()
	if err != nil {
		return 0, fmt.Errorf("list history collections: %w", err)
	}
	total := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := h.store.Prune(id, limit)
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", id, err)
		}
		total += n
	}
	if total > 0 {
		h.logger.Info("history pruned", "entries", total, "collections", len(ids))
	}
	return total, nil
}

// Schedule (re)starts the pruning cron job with spec, e.g. "@every 10m".
func (h *HistoryService) Schedule(ctx context.Context, spec string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopCronLocked()

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := h.PruneAll(ctx); err != nil {
			h.logger.Error("history prune failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule history prune %q: %w", spec, err)
	}
	c.Start()
	h.cronSched = c
	h.logger.Debug("history prune scheduled", "spec", spec)
	return nil
}

// Stop halts the scheduler and waits for a running prune, bounded by ctx.
func (h *HistoryService) Stop(ctx context.Context) {
	h.mu.Lock()
	h.stopCronLocked()
	h.mu.Unlock()
	if !h.pruning.wait(ctx) {
		h.logger.Warn("stopped before history prune finished")
	}
}

func (h *HistoryService) stopCronLocked() {
	if h.cronSched != nil {
		h.cronSched.Stop()
		h.cronSched = nil
	}
}
