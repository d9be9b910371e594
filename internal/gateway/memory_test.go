package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMemoryGateway_CRUD(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway(entities.Record{ID: "1", Title: "Dune", Author: "Frank Herbert"})

	created, err := g.InsertOne(ctx, entities.Record{ID: "ignored", Title: "Emma", Author: "Jane Austen", Genre: ptr("Romance")})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", created.ID)
	assert.Nil(t, created.Genre)
	assert.NotNil(t, created.CreatedAt)

	listed, err := g.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, created.ID, listed[0].ID, "newest first")

	require.NoError(t, g.UpdateOne(ctx, "1", entities.Record{Rating: ptr(4), Notes: ptr("spice")}))
	listed, _ = g.ListAll(ctx)
	assert.Equal(t, "Dune", listed[1].Title)
	assert.Equal(t, 4, *listed[1].Rating)
	assert.NotNil(t, listed[1].LastUpdated)

	require.NoError(t, g.DeleteOne(ctx, "1"))
	assert.Equal(t, 1, g.Len())
}

func TestMemoryGateway_Errors(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()

	_, err := g.InsertOne(ctx, entities.Record{Title: "", Author: "Nobody"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.InsertOne(ctx, entities.Record{Title: "Dune", Author: "Frank Herbert", Rating: ptr(6)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.InsertOne(ctx, entities.Record{Title: "Dune", Author: "Frank Herbert", ReadingStatus: ptr("Abandoned")})
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, g.UpdateOne(ctx, "nope", entities.Record{Title: "x"}), ErrNotFound)
	assert.ErrorIs(t, g.DeleteOne(ctx, "nope"), ErrNotFound)
	assert.Zero(t, g.Len())
}

func TestMemoryGateway_FailNext(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	boom := errors.New("boom")

	g.FailNext(OpList, boom)
	g.FailNext(OpList, boom)

	_, err := g.ListAll(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = g.ListAll(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = g.ListAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, g.Calls(OpList))
	assert.Zero(t, g.Calls(OpInsert))
}

func TestMemoryGateway_Pause(t *testing.T) {
	g := NewMemoryGateway()
	resume := g.Pause(OpInsert)

	done := make(chan error, 1)
	go func() {
		_, err := g.InsertOne(context.Background(), entities.Record{Title: "Dune", Author: "Frank Herbert"})
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("insert finished while paused")
	case <-time.After(50 * time.Millisecond):
	}

	resume()
	resume()
	require.NoError(t, <-done)
	assert.Equal(t, 1, g.Len())
}

func TestMemoryGateway_CancelledContext(t *testing.T) {
	g := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ListAll(ctx)
	assert.ErrorIs(t, err, ErrConnection)
}
