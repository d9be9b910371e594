package http

// Store interfaces used by HTTP controllers.
//
// Each controller depends on the narrowest interface that covers what it
// does, so tests can hand in a real collection.Synchronizer backed by a
// gateway.MemoryGateway or a small fake.

import (
	"context"
	"time"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CollectionReader is read access to the synchronized collection.
type CollectionReader interface {
	Snapshot() []entities.Book
	Get(id string) (entities.Book, bool)
	Status() collection.Status
	InFlight() int
}

// Collection is the full synchronizer surface the API drives.
type Collection interface {
	CollectionReader
	Load(ctx context.Context) error
	Add(ctx context.Context, draft entities.Draft) *collection.Mutation
	Update(ctx context.Context, id string, replacement entities.Book) *collection.Mutation
	Delete(ctx context.Context, id string) *collection.Mutation
	DismissError()
}

// AuditLog is read access to recorded synchronization events.
type AuditLog interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetBookHistory(bookID string) ([]entities.AuditEvent, error)
}

// RefreshStatus reports on the periodic refresh job.
type RefreshStatus interface {
	IsRefreshing() bool
	GetNextRunTime() *time.Time
}
