// Package mapper translates between the storage shape of a book
// (entities.Record, snake_case, server timestamps) and the application shape
// (entities.Book). Mapping never fails: absent or malformed storage values
// degrade to their documented defaults.
//
// Field pairs:
//
//	id             <-> ID
//	title          <-> Title
//	author         <-> Author
//	category       <-> Category   (legacy "genre" is read as a fallback)
//	description    <-> Description
//	notes          <-> Notes
//	rating         <-> Rating
//	reading_status <-> ReadingStatus
//	progress       <-> Progress
//	cover_url      <-> CoverURL
//	created_at     <-> CreatedAt
//	last_updated   <-> LastUpdated
package mapper

import (
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ToApplication converts a storage record into a Book, filling every absent
// optional field with its default.
func ToApplication(r entities.Record) entities.Book {
	return entities.Book{
		ID:            r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Category:      category(r),
		Description:   stringOr(r.Description, ""),
		Notes:         stringOr(r.Notes, ""),
		Rating:        clamp(intOr(r.Rating, 0), 0, entities.MaxRating),
		ReadingStatus: status(r.ReadingStatus),
		Progress:      clamp(intOr(r.Progress, 0), 0, entities.MaxProgress),
		CoverURL:      cover(r.CoverURL),
		CreatedAt:     r.CreatedAt,
		LastUpdated:   r.LastUpdated,
	}
}

// ToStorage converts a (possibly partially filled) Book into a storage
// record. When excludeID is set the identifier is left empty so the store
// assigns one.
func ToStorage(b entities.Book, excludeID bool) entities.Record {
	r := entities.Record{
		Title:         b.Title,
		Author:        b.Author,
		Category:      ptr(categoryOrDefault(b.Category)),
		Description:   ptr(b.Description),
		Notes:         ptr(b.Notes),
		Rating:        ptr(clamp(b.Rating, 0, entities.MaxRating)),
		ReadingStatus: ptr(string(normalizeStatus(b.ReadingStatus))),
		Progress:      ptr(clamp(b.Progress, 0, entities.MaxProgress)),
		CoverURL:      ptr(nonEmpty(b.CoverURL, entities.DefaultCoverURL)),
		CreatedAt:     b.CreatedAt,
		LastUpdated:   b.LastUpdated,
	}
	if !excludeID {
		r.ID = b.ID
	}
	return r
}

// FromDraft builds the fully defaulted Book used for an optimistic insert.
func FromDraft(d entities.Draft, id string) entities.Book {
	return ToApplication(ToStorage(entities.Book{
		ID:            id,
		Title:         d.Title,
		Author:        d.Author,
		Category:      d.Category,
		Description:   d.Description,
		Notes:         d.Notes,
		Rating:        d.Rating,
		ReadingStatus: d.ReadingStatus,
		Progress:      d.Progress,
		CoverURL:      d.CoverURL,
	}, false))
}

// ToApplicationAll maps a slice of records, preserving order.
func ToApplicationAll(records []entities.Record) []entities.Book {
	books := make([]entities.Book, 0, len(records))
	for _, r := range records {
		books = append(books, ToApplication(r))
	}
	return books
}

func category(r entities.Record) string {
	if r.Category != nil && strings.TrimSpace(*r.Category) != "" {
		return *r.Category
	}
	if r.Genre != nil {
		return categoryOrDefault(*r.Genre)
	}
	return entities.DefaultCategory
}

func categoryOrDefault(c string) string {
	if strings.TrimSpace(c) == "" {
		return entities.DefaultCategory
	}
	return c
}

func status(s *string) entities.ReadingStatus {
	if s == nil {
		return entities.ReadingStatusNotStarted
	}
	return normalizeStatus(entities.ReadingStatus(*s))
}

func normalizeStatus(s entities.ReadingStatus) entities.ReadingStatus {
	if s.Valid() {
		return s
	}
	return entities.ReadingStatusNotStarted
}

func cover(s *string) string {
	if s == nil {
		return entities.DefaultCoverURL
	}
	return nonEmpty(*s, entities.DefaultCoverURL)
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
