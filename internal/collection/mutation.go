package collection

import (
	"context"
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Op names the kind of an optimistic mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// action is the audit action name for the op.
func (o Op) action() string {
	return "book_" + string(o)
}

// Mutation is the second phase of an optimistic change. The local collection
// has already been modified when the caller receives it; Done is closed once
// the store has confirmed the change or the collection has been reloaded
// after a failure.
type Mutation struct {
	op   Op
	id   string
	done chan struct{}

	mu   sync.Mutex
	book entities.Book
	err  error

	// discarded is set, under the synchronizer lock, when a pending add is
	// deleted before the store confirms it.
	discarded bool
}

func newMutation(op Op, id string, book entities.Book) *Mutation {
	return &Mutation{op: op, id: id, book: book, done: make(chan struct{})}
}

// Op returns the mutation kind.
func (m *Mutation) Op() Op {
	return m.op
}

// ID returns the identifier the mutation was issued against. For an add this
// is the temporary identifier.
func (m *Mutation) ID() string {
	return m.id
}

// Done is closed when the mutation is settled.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles or ctx is done. Cancelling ctx only
// stops the wait; the store call keeps running.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the store failure that caused a rollback, or nil. It is nil
// while the mutation is in flight.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Book returns the optimistic book while in flight and the confirmed book
// afterwards. For an add confirmed by the store it carries the permanent id.
func (m *Mutation) Book() entities.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book
}

func (m *Mutation) retarget(id string) {
	m.mu.Lock()
	m.book.ID = id
	m.mu.Unlock()
}

func (m *Mutation) finish(book entities.Book, err error) {
	m.mu.Lock()
	if err == nil {
		m.book = book
	}
	m.err = err
	m.mu.Unlock()
	close(m.done)
}
