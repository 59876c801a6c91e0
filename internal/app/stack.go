package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"mockboard/internal/config"
	"mockboard/internal/domain"
	"mockboard/internal/service"
	"mockboard/internal/storage"
)

// Stack is the storage and service graph shared by the GUI, the headless
// MCP server and the CLI.
type Stack struct {
	DB          *storage.DB
	Collections *storage.CollectionStore
	Board       *service.BoardService
	History     *service.HistoryService
	Settings    *service.ViewportSettingsService

	logger *log.Logger
	remote remoteLayouts
}

// remoteLayouts is a layout store living outside the SQLite file.
type remoteLayouts interface {
	domain.LayoutStore
	Close(ctx context.Context) error
}

// OpenStack opens the database and builds the services. With the mongo,
// postgres or mysql backend, positions and connections go to that server;
// collections, screens, history and settings stay in SQLite.
func OpenStack(ctx context.Context, cfg *config.Config, emitter service.EventEmitter, logger *log.Logger) (*Stack, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := storage.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	st := &Stack{
		DB:          db,
		Collections: storage.NewCollectionStore(db),
		Settings:    service.NewViewportSettingsService(db),
		logger:      logger,
	}

	var layouts domain.LayoutStore = storage.NewLayoutStore(db)
	remote, err := openRemoteLayouts(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect layout store: %w", err)
	}
	if remote != nil {
		st.remote = remote
		layouts = remote
	}
	logger.Debug("storage opened", "db", db.Path(), "layouts", cfg.Storage.Backend)

	st.History = service.NewHistoryService(storage.NewHistoryStore(db), cfg.History.MaxEntries, emitter, logger)
	st.Board = service.NewBoardService(
		st.Collections,
		storage.NewScreenStore(db),
		layouts,
		st.History,
		emitter,
		logger,
		cfg.SessionConfig(),
	)
	st.Board.SetRecordDrags(cfg.History.RecordDrags)
	return st, nil
}

// StartPruning schedules layout history pruning.
func (s *Stack) StartPruning(ctx context.Context, spec string) error {
	if spec == "" {
		return nil
	}
	return s.History.Schedule(ctx, spec)
}

// ApplyConfig pushes a reloaded config into the running services.
func (s *Stack) ApplyConfig(ctx context.Context, cfg *config.Config) {
	s.Board.ApplySnapSettings(cfg.SnapOptions())
	s.Board.SetRecordDrags(cfg.History.RecordDrags)
	s.History.SetMaxEntries(cfg.History.MaxEntries)
	if err := s.StartPruning(ctx, cfg.History.PruneSchedule); err != nil {
		s.logger.Error("reschedule history prune", "err", err)
	}
}

// Close saves the open collection and releases every store.
func (s *Stack) Close(ctx context.Context) error {
	s.History.Stop(ctx)
	if err := s.Board.CloseCollection(); err != nil {
		s.logger.Warn("close collection", "err", err)
	}
	if s.remote != nil {
		if err := s.remote.Close(ctx); err != nil {
			s.logger.Warn("disconnect layout store", "err", err)
		}
	}
	return s.DB.Close()
}

func openRemoteLayouts(ctx context.Context, sc config.StorageConfig) (remoteLayouts, error) {
	switch sc.Backend {
	case config.BackendMongo:
		return storage.NewMongoLayoutStore(ctx, sc.MongoURI, sc.MongoDatabase)
	case config.BackendPostgres:
		return storage.NewSQLLayoutStore(ctx, storage.DriverPostgres, sc.DSN)
	case config.BackendMySQL:
		return storage.NewSQLLayoutStore(ctx, storage.DriverMySQL, sc.DSN)
	}
	return nil, nil
}
