package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Operation names accepted by MemoryGateway.FailNext.
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// MemoryGateway keeps records in process memory. It backs demo mode and gives
// tests a store whose failures can be scripted.
type MemoryGateway struct {
	mu       sync.Mutex
	records  []entities.Record // oldest first
	failures map[string][]error
	calls    map[string]int
	gates    map[string]chan struct{}
	now      func() time.Time
}

func NewMemoryGateway(seed ...entities.Record) *MemoryGateway {
	g := &MemoryGateway{
		failures: make(map[string][]error),
		calls:    make(map[string]int),
		gates:    make(map[string]chan struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
	g.Seed(seed...)
	return g
}

func (g *MemoryGateway) Describe() string {
	return "memory"
}

// Seed appends records as if they had been inserted in the given order.
// Records without an id or created_at get one assigned.
func (g *MemoryGateway) Seed(records ...entities.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt == nil {
			now := g.now()
			r.CreatedAt = &now
		}
		g.records = append(g.records, r)
	}
}

// FailNext makes the next call of op return err. Multiple calls queue up.
func (g *MemoryGateway) FailNext(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[op] = append(g.failures[op], err)
}

// Pause holds every call of op until the returned resume function is
// called. Used to observe optimistic state before a confirmation lands.
func (g *MemoryGateway) Pause(op string) (resume func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[op] = ch
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			if g.gates[op] == ch {
				delete(g.gates, op)
			}
			g.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many times op has been invoked.
func (g *MemoryGateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

// Len returns the number of stored records.
func (g *MemoryGateway) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

func (g *MemoryGateway) ListAll(ctx context.Context) ([]entities.Record, error) {
	g.gate(ctx, OpList)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter(ctx, OpList); err != nil {
		return nil, err
	}

	out := make([]entities.Record, 0, len(g.records))
	for i := len(g.records) - 1; i >= 0; i-- {
		out = append(out, g.records[i])
	}
	return out, nil
}

func (g *MemoryGateway) InsertOne(ctx context.Context, record entities.Record) (entities.Record, error) {
	g.gate(ctx, OpInsert)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter(ctx, OpInsert); err != nil {
		return entities.Record{}, err
	}
	if err := validate("insert book", record, false); err != nil {
		return entities.Record{}, err
	}

	now := g.now()
	record.ID = uuid.NewString()
	record.Genre = nil
	record.CreatedAt = &now
	record.LastUpdated = nil
	g.records = append(g.records, record)
	return record, nil
}

func (g *MemoryGateway) UpdateOne(ctx context.Context, id string, patch entities.Record) error {
	const op = "update book"

	g.gate(ctx, OpUpdate)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter(ctx, OpUpdate); err != nil {
		return err
	}
	if err := validate(op, patch, true); err != nil {
		return err
	}

	for i := range g.records {
		if g.records[i].ID == id {
			applyPatch(&g.records[i], patch, g.now())
			return nil
		}
	}
	return notFoundError(op, id)
}

func (g *MemoryGateway) DeleteOne(ctx context.Context, id string) error {
	const op = "delete book"

	g.gate(ctx, OpDelete)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter(ctx, OpDelete); err != nil {
		return err
	}

	for i := range g.records {
		if g.records[i].ID == id {
			g.records = append(g.records[:i], g.records[i+1:]...)
			return nil
		}
	}
	return notFoundError(op, id)
}

// enter counts the call and pops a scripted failure. Callers hold g.mu.
func (g *MemoryGateway) enter(ctx context.Context, op string) error {
	g.calls[op]++
	if err := ctx.Err(); err != nil {
		return connectionError(op, err)
	}
	if queued := g.failures[op]; len(queued) > 0 {
		g.failures[op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (g *MemoryGateway) gate(ctx context.Context, op string) {
	g.mu.Lock()
	ch := g.gates[op]
	g.mu.Unlock()

	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
}
