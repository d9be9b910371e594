// Package gateway is the contract between the collection synchronizer and a
// persisted "books" collection, plus the backends that implement it.
//
// Every operation may fail with an *Error whose Kind is one of ErrConnection,
// ErrQuery, ErrValidation or ErrNotFound. Gateways never retry; retry and
// recovery policy belong to the caller.
//
// # Backends
//
//   - RemoteGateway: PostgREST (Supabase) REST API
//   - SQLiteGateway: local gorm/sqlite database
//   - MemoryGateway: in-process store for demo mode and tests
//   - Unconfigured: placeholder used when the remote store has no endpoint or key
package gateway

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Gateway performs the four logical operations against the books collection.
type Gateway interface {
	// ListAll returns every record, newest first by created_at.
	ListAll(ctx context.Context) ([]entities.Record, error)
	// InsertOne stores a record without an id and returns it with the
	// store-assigned id and timestamp.
	InsertOne(ctx context.Context, record entities.Record) (entities.Record, error)
	// UpdateOne applies the non-nil fields of patch to the record with id.
	UpdateOne(ctx context.Context, id string, patch entities.Record) error
	// DeleteOne removes the record with id.
	DeleteOne(ctx context.Context, id string) error
}

// Describer is implemented by gateways that can name their backing store for
// health reporting.
type Describer interface {
	Describe() string
}

// New selects the backend named by cfg.Store.Backend. The sqlite backend
// needs db; the remote backend degrades to Unconfigured when the endpoint or
// credential is missing instead of failing.
func New(cfg config.Store, db *gorm.DB) (Gateway, error) {
	switch cfg.Backend {
	case config.StoreBackendRemote, "":
		var missing []string
		if cfg.URL == "" {
			missing = append(missing, "STORE_URL")
		}
		if cfg.Key == "" {
			missing = append(missing, "STORE_KEY")
		}
		if len(missing) > 0 {
			return NewUnconfigured(missing...), nil
		}
		g := NewRemoteGateway(cfg.URL, cfg.Key, cfg.Table, cfg.Timeout)
		g.SetProgressColumn(cfg.ProgressColumn)
		return g, nil
	case config.StoreBackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite backend requires a database")
		}
		return NewSQLiteGateway(db), nil
	case config.StoreBackendMemory:
		return NewMemoryGateway(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
