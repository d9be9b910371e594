package gateway

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SQLiteGateway persists books in a local sqlite database through gorm. Ids
// are random UUIDs and timestamps are assigned on write, mirroring what a
// hosted store does.
type SQLiteGateway struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLiteGateway expects db to be migrated for entities.Record.
func NewSQLiteGateway(db *gorm.DB) *SQLiteGateway {
	return &SQLiteGateway{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (g *SQLiteGateway) Describe() string {
	return "sqlite"
}

func (g *SQLiteGateway) ListAll(ctx context.Context) ([]entities.Record, error) {
	var records []entities.Record
	err := g.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC").Find(&records).Error
	if err != nil {
		return nil, dbError("list books", err)
	}
	return records, nil
}

func (g *SQLiteGateway) InsertOne(ctx context.Context, record entities.Record) (entities.Record, error) {
	const op = "insert book"
	if err := validate(op, record, false); err != nil {
		return entities.Record{}, err
	}

	now := g.now()
	record.ID = uuid.NewString()
	record.Genre = nil
	record.CreatedAt = &now
	record.LastUpdated = nil

	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		return entities.Record{}, dbError(op, err)
	}
	return record, nil
}

func (g *SQLiteGateway) UpdateOne(ctx context.Context, id string, patch entities.Record) error {
	const op = "update book"
	if err := validate(op, patch, true); err != nil {
		return err
	}

	updates := map[string]any{"last_updated": g.now()}
	if patch.Title != "" {
		updates["title"] = patch.Title
	}
	if patch.Author != "" {
		updates["author"] = patch.Author
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.ReadingStatus != nil {
		updates["reading_status"] = *patch.ReadingStatus
	}
	if patch.Progress != nil {
		updates["progress"] = *patch.Progress
	}
	if patch.CoverURL != nil {
		updates["cover_url"] = *patch.CoverURL
	}

	result := g.db.WithContext(ctx).Model(&entities.Record{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return dbError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundError(op, id)
	}
	return nil
}

func (g *SQLiteGateway) DeleteOne(ctx context.Context, id string) error {
	const op = "delete book"

	result := g.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Record{})
	if result.Error != nil {
		return dbError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundError(op, id)
	}
	return nil
}

// dbError maps driver failures onto the gateway error kinds.
func dbError(op string, err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: ErrNotFound, Op: op, Err: err}
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		strings.Contains(msg, "database is closed"), strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database"):
		return connectionError(op, err)
	case strings.Contains(msg, "constraint failed"):
		return &Error{Kind: ErrValidation, Op: op, Err: err}
	default:
		return &Error{Kind: ErrQuery, Op: op, Err: err}
	}
}
