package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Unconfigured fails every operation with a connection error that names the
// missing settings, so the synchronizer sits in a descriptive error state
// rather than the process refusing to start.
type Unconfigured struct {
	missing []string
}

func NewUnconfigured(missing ...string) *Unconfigured {
	return &Unconfigured{missing: missing}
}

func (u *Unconfigured) err(op string) error {
	return connectionError(op, fmt.Errorf("remote store is not configured: set %s", strings.Join(u.missing, " and ")))
}

func (u *Unconfigured) ListAll(ctx context.Context) ([]entities.Record, error) {
	return nil, u.err("list books")
}

func (u *Unconfigured) InsertOne(ctx context.Context, record entities.Record) (entities.Record, error) {
	return entities.Record{}, u.err("insert book")
}

func (u *Unconfigured) UpdateOne(ctx context.Context, id string, patch entities.Record) error {
	return u.err("update book")
}

func (u *Unconfigured) DeleteOne(ctx context.Context, id string) error {
	return u.err("delete book")
}

func (u *Unconfigured) Describe() string {
	return "unconfigured"
}

// Missing names the settings that must be provided.
func (u *Unconfigured) Missing() []string {
	return u.missing
}
