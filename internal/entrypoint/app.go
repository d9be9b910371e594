package entrypoint

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/gateway"
)

// App holds the wired core shared by the server and the CLI commands.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Database   *database.Database
	Gateway    gateway.Gateway
	Audit      *audit.Service
	Collection *collection.Synchronizer
}

// NewApp opens the local database, selects the store backend and builds the
// synchronizer. In demo mode the store is an in-memory copy of the sample
// library.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gw, err := newGateway(ctx, cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), logger.Named("audit"))

	synchronizer := collection.NewSynchronizer(gw,
		collection.WithLogger(logger.Named("collection")),
		collection.WithRecorder(auditService),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Database:   db,
		Gateway:    gw,
		Audit:      auditService,
		Collection: synchronizer,
	}, nil
}

func newGateway(ctx context.Context, cfg *config.Config, db *database.Database, logger *zap.Logger) (gateway.Gateway, error) {
	if cfg.Demo.Enabled {
		mem := gateway.NewMemoryGateway()
		n, err := demo.Seed(ctx, mem)
		if err != nil {
			return nil, fmt.Errorf("failed to seed demo library: %w", err)
		}
		logger.Info("demo mode enabled", zap.Int("books", n), zap.Bool("read_only", cfg.Demo.ReadOnly))
		return mem, nil
	}

	gw, err := gateway.New(cfg.Store, db.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if u, ok := gw.(*gateway.Unconfigured); ok {
		logger.Warn("remote store is not configured, the collection will stay in error state",
			zap.Strings("missing", u.Missing()))
	}
	return gw, nil
}

// Close drains pending confirmations and audit writes, then closes the
// database.
func (a *App) Close() error {
	a.Collection.Wait()
	a.Audit.Flush()
	return a.Database.Close()
}
