package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// validate enforces the column constraints of the books table for the local
// backends. With partial set, empty title/author and nil columns are left
// alone because they are not part of the write.
func validate(op string, r entities.Record, partial bool) error {
	if !partial || r.Title != "" {
		if strings.TrimSpace(r.Title) == "" {
			return validationError(op, "title must not be empty")
		}
	}
	if !partial || r.Author != "" {
		if strings.TrimSpace(r.Author) == "" {
			return validationError(op, "author must not be empty")
		}
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > entities.MaxRating) {
		return validationError(op, fmt.Sprintf("rating %d out of range 0-%d", *r.Rating, entities.MaxRating))
	}
	if r.Progress != nil && (*r.Progress < 0 || *r.Progress > entities.MaxProgress) {
		return validationError(op, fmt.Sprintf("progress %d out of range 0-%d", *r.Progress, entities.MaxProgress))
	}
	if r.ReadingStatus != nil && !entities.ReadingStatus(*r.ReadingStatus).Valid() {
		return validationError(op, fmt.Sprintf("unknown reading status %q", *r.ReadingStatus))
	}
	return nil
}

// applyPatch copies the set fields of patch onto dst.
func applyPatch(dst *entities.Record, patch entities.Record, now time.Time) {
	if patch.Title != "" {
		dst.Title = patch.Title
	}
	if patch.Author != "" {
		dst.Author = patch.Author
	}
	if patch.Category != nil {
		dst.Category = patch.Category
	}
	if patch.Description != nil {
		dst.Description = patch.Description
	}
	if patch.Notes != nil {
		dst.Notes = patch.Notes
	}
	if patch.Rating != nil {
		dst.Rating = patch.Rating
	}
	if patch.ReadingStatus != nil {
		dst.ReadingStatus = patch.ReadingStatus
	}
	if patch.Progress != nil {
		dst.Progress = patch.Progress
	}
	if patch.CoverURL != nil {
		dst.CoverURL = patch.CoverURL
	}
	dst.LastUpdated = &now
}
