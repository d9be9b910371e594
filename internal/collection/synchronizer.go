// Package collection owns the in-memory book collection and keeps it in step
// with a gateway.Gateway.
//
// Mutations are two-phase. Add, Update and Delete change the local collection
// and return at once with a *Mutation; the store call runs in the background.
// A confirmed add swaps its temporary identifier for the permanent one. Any
// failure sets an Error status and recovers by reloading the whole collection
// from the store (rollback-by-reload), which also discards other optimistic
// edits that were still in flight. No inverse mutation is ever computed.
package collection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/gateway"
	"github.com/mrlokans/bookshelf/internal/mapper"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Status is the user-visible synchronization state. Message is set only in
// StateError.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// Load triggers, passed to Recorder.RecordLoad.
const (
	TriggerManual  = "manual"
	TriggerStartup = "startup"
	TriggerRefresh = "refresh"
)

// Recorder receives synchronization outcomes. audit.Service implements it.
type Recorder interface {
	RecordLoad(trigger string, count int, err error)
	RecordMutation(action, bookID string, err error)
	RecordRollback(action, bookID string, reloadErr error)
}

type Option func(*Synchronizer)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *Synchronizer) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// Synchronizer is safe for concurrent use. Every change to the collection is
// applied under one lock, so each mutation is complete before the next starts.
type Synchronizer struct {
	gateway  gateway.Gateway
	logger   *zap.Logger
	recorder Recorder
	ids      *tempIDs

	mu      sync.Mutex
	books   []entities.Book
	status  Status
	pending map[string]*Mutation // unconfirmed adds by temporary id

	loads    singleflight.Group
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func NewSynchronizer(gw gateway.Gateway, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		gateway:  gw,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		ids:      newTempIDs(),
		books:    []entities.Book{},
		status:   Status{State: StateIdle},
		pending:  make(map[string]*Mutation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the collection, newest first.
func (s *Synchronizer) Snapshot() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Get returns the book with id from the local collection.
func (s *Synchronizer) Get(id string) (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.books, id); i >= 0 {
		return s.books[i], true
	}
	return entities.Book{}, false
}

func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// DismissError clears an Error status. The failed operation is not retried.
func (s *Synchronizer) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State == StateError {
		s.status = Status{State: StateIdle}
	}
}

// InFlight reports how many mutations are still waiting on the store.
func (s *Synchronizer) InFlight() int {
	return int(s.inFlight.Load())
}

// Wait blocks until every mutation issued so far has settled.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Load replaces the collection with the store's contents. On failure the
// previous collection is kept and the status becomes Error.
func (s *Synchronizer) Load(ctx context.Context) error {
	return s.load(ctx, TriggerManual)
}

// LoadWithTrigger is Load with the reason recorded for auditing.
func (s *Synchronizer) LoadWithTrigger(ctx context.Context, trigger string) error {
	return s.load(ctx, trigger)
}

func (s *Synchronizer) load(ctx context.Context, trigger string) error {
	s.mu.Lock()
	s.status = Status{State: StateLoading}
	s.mu.Unlock()

	books, err := s.fetch(ctx)

	s.mu.Lock()
	if err != nil {
		s.status = Status{State: StateError, Message: err.Error()}
	} else {
		s.books = books
		s.status = Status{State: StateIdle}
	}
	s.mu.Unlock()

	s.recorder.RecordLoad(trigger, len(books), err)
	if err != nil {
		s.logger.Warn("collection load failed", zap.String("trigger", trigger), zap.Error(err))
		return fmt.Errorf("load collection: %w", err)
	}
	s.logger.Debug("collection loaded", zap.String("trigger", trigger), zap.Int("books", len(books)))
	return nil
}

// fetch lists and maps the store contents. Concurrent callers share one
// round trip.
func (s *Synchronizer) fetch(ctx context.Context) ([]entities.Book, error) {
	v, err, _ := s.loads.Do("list", func() (any, error) {
		records, err := s.gateway.ListAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return mapper.ToApplicationAll(records), nil
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]entities.Book)
	out := make([]entities.Book, len(shared))
	copy(out, shared)
	return out, nil
}

// Add inserts a defaulted book built from draft at the front of the
// collection under a temporary identifier and stores it in the background.
func (s *Synchronizer) Add(ctx context.Context, draft entities.Draft) *Mutation {
	tempID := s.ids.next()
	book := mapper.FromDraft(draft, tempID)
	m := newMutation(OpAdd, tempID, book)

	s.mu.Lock()
	s.books = append([]entities.Book{book}, s.books...)
	s.pending[tempID] = m
	s.mu.Unlock()

	s.goConfirm(func() { s.confirmAdd(ctx, m, book) })
	return m
}

func (s *Synchronizer) confirmAdd(ctx context.Context, m *Mutation, book entities.Book) {
	record, err := s.gateway.InsertOne(context.WithoutCancel(ctx), mapper.ToStorage(book, true))
	if err != nil {
		s.rollback(ctx, m, err)
		return
	}
	confirmed := mapper.ToApplication(record)

	s.mu.Lock()
	delete(s.pending, m.id)
	switch i := indexOf(s.books, m.id); {
	case i >= 0 && indexOf(s.books, confirmed.ID) >= 0:
		// A reload already brought in the stored copy.
		s.books = removeAt(s.books, i)
	case i >= 0:
		s.books[i] = confirmed
	case !m.discarded && indexOf(s.books, confirmed.ID) < 0:
		// A reload from before the insert dropped the optimistic copy.
		s.books = append([]entities.Book{confirmed}, s.books...)
	}
	s.mu.Unlock()

	s.recorder.RecordMutation(OpAdd.action(), confirmed.ID, nil)
	s.logger.Debug("book added", zap.String("temp_id", m.id), zap.String("id", confirmed.ID))
	m.finish(confirmed, nil)
}

// Update replaces the book with id by replacement locally and stores the
// replacement in the background.
func (s *Synchronizer) Update(ctx context.Context, id string, replacement entities.Book) *Mutation {
	replacement.ID = id
	book := mapper.ToApplication(mapper.ToStorage(replacement, false))

	s.mu.Lock()
	if i := indexOf(s.books, id); i >= 0 {
		if book.CreatedAt == nil {
			book.CreatedAt = s.books[i].CreatedAt
		}
		s.books[i] = book
	}
	add := s.pending[id]
	s.mu.Unlock()

	m := newMutation(OpUpdate, id, book)
	s.goConfirm(func() { s.confirmUpdate(ctx, m, add) })
	return m
}

func (s *Synchronizer) confirmUpdate(ctx context.Context, m *Mutation, add *Mutation) {
	target := m.id
	if add != nil {
		permanent, err := s.awaitAdd(add)
		if err != nil {
			s.abandon(m, err)
			return
		}
		target = permanent
		m.retarget(target)

		s.mu.Lock()
		if i := indexOf(s.books, target); i >= 0 {
			book := m.Book()
			book.CreatedAt = s.books[i].CreatedAt
			s.books[i] = book
		}
		s.mu.Unlock()
	}

	book := m.Book()
	if err := s.gateway.UpdateOne(context.WithoutCancel(ctx), target, mapper.ToStorage(book, true)); err != nil {
		s.rollback(ctx, m, err)
		return
	}

	s.recorder.RecordMutation(OpUpdate.action(), target, nil)
	s.logger.Debug("book updated", zap.String("id", target))
	m.finish(book, nil)
}

// Delete removes the book with id locally and deletes it from the store in
// the background. Asking the user for confirmation is the caller's job.
func (s *Synchronizer) Delete(ctx context.Context, id string) *Mutation {
	s.mu.Lock()
	var removed entities.Book
	if i := indexOf(s.books, id); i >= 0 {
		removed = s.books[i]
		s.books = removeAt(s.books, i)
	}
	add := s.pending[id]
	if add != nil {
		add.discarded = true
	}
	s.mu.Unlock()

	m := newMutation(OpDelete, id, removed)
	s.goConfirm(func() { s.confirmDelete(ctx, m, add) })
	return m
}

func (s *Synchronizer) confirmDelete(ctx context.Context, m *Mutation, add *Mutation) {
	target := m.id
	if add != nil {
		permanent, err := s.awaitAdd(add)
		if err != nil {
			s.abandon(m, err)
			return
		}
		target = permanent
		m.retarget(target)
	}

	if err := s.gateway.DeleteOne(context.WithoutCancel(ctx), target); err != nil {
		s.rollback(ctx, m, err)
		return
	}

	s.recorder.RecordMutation(OpDelete.action(), target, nil)
	s.logger.Debug("book deleted", zap.String("id", target))
	m.finish(m.Book(), nil)
}

// awaitAdd waits for a pending add and returns its permanent identifier.
func (s *Synchronizer) awaitAdd(add *Mutation) (string, error) {
	<-add.Done()
	if err := add.Err(); err != nil {
		return "", fmt.Errorf("book %s was never stored: %w", add.id, gateway.ErrNotFound)
	}
	return add.Book().ID, nil
}

// abandon settles a mutation chained to an add that failed. That add already
// reported the error and reloaded, so nothing else happens here.
func (s *Synchronizer) abandon(m *Mutation, err error) {
	s.recorder.RecordMutation(m.op.action(), m.id, err)
	s.logger.Info("mutation abandoned", zap.String("op", string(m.op)), zap.String("id", m.id), zap.Error(err))
	m.finish(entities.Book{}, err)
}

// rollback reports err and reloads the collection from the store. The Error
// status set here survives a successful reload so the user still sees why
// their change disappeared.
func (s *Synchronizer) rollback(ctx context.Context, m *Mutation, err error) {
	s.logger.Warn("mutation failed, reloading collection",
		zap.String("op", string(m.op)),
		zap.String("id", m.id),
		zap.Error(err))

	s.mu.Lock()
	s.status = Status{State: StateError, Message: err.Error()}
	s.mu.Unlock()

	books, reloadErr := s.fetch(ctx)

	s.mu.Lock()
	switch {
	case reloadErr == nil:
		s.books = books
	case m.op == OpAdd:
		// The store never accepted the record, so drop it even though
		// the rest of the collection stays stale.
		if i := indexOf(s.books, m.id); i >= 0 {
			s.books = removeAt(s.books, i)
		}
	}
	if m.op == OpAdd {
		delete(s.pending, m.id)
	}
	s.mu.Unlock()

	s.recorder.RecordMutation(m.op.action(), m.id, err)
	s.recorder.RecordRollback(m.op.action(), m.id, reloadErr)
	if reloadErr != nil {
		s.logger.Error("rollback reload failed, collection may be stale", zap.Error(reloadErr))
	}
	m.finish(entities.Book{}, err)
}

func (s *Synchronizer) goConfirm(fn func()) {
	s.wg.Add(1)
	s.inFlight.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Add(-1)
		fn()
	}()
}

func indexOf(books []entities.Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(books []entities.Book, i int) []entities.Book {
	out := make([]entities.Book, 0, len(books)-1)
	out = append(out, books[:i]...)
	return append(out, books[i+1:]...)
}

type nopRecorder struct{}

func (nopRecorder) RecordLoad(string, int, error) {}

func (nopRecorder) RecordMutation(string, string, error) {}

func (nopRecorder) RecordRollback(string, string, error) {}
