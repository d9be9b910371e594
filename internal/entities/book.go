package entities

import (
	"strings"
	"time"
)

type ReadingStatus string

const (
	ReadingStatusNotStarted ReadingStatus = "Not Started"
	ReadingStatusReading    ReadingStatus = "Reading"
	ReadingStatusCompleted  ReadingStatus = "Completed"
)

// Valid reports whether s is one of the known reading statuses.
func (s ReadingStatus) Valid() bool {
	switch s {
	case ReadingStatusNotStarted, ReadingStatusReading, ReadingStatusCompleted:
		return true
	}
	return false
}

const (
	DefaultCategory = "Fiction"
	DefaultCoverURL = "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=400&h=600&fit=crop"

	MaxRating   = 5
	MaxProgress = 100

	// TemporaryIDPrefix marks identifiers generated locally for records the
	// remote store has not confirmed yet.
	TemporaryIDPrefix = "tmp-"
)

// Book is the application-facing shape of a catalogued book.
type Book struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	Notes         string        `json:"notes"`
	Rating        int           `json:"rating"`
	ReadingStatus ReadingStatus `json:"readingStatus"`
	Progress      int           `json:"progress"`
	CoverURL      string        `json:"coverUrl"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
	LastUpdated   *time.Time    `json:"last_updated,omitempty"`
}

// Pending reports whether the book still carries a locally generated identifier.
func (b Book) Pending() bool {
	return IsTemporaryID(b.ID)
}

// Draft holds the user-supplied fields of a book that has not been stored yet.
type Draft struct {
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	Notes         string        `json:"notes"`
	Rating        int           `json:"rating"`
	ReadingStatus ReadingStatus `json:"readingStatus"`
	Progress      int           `json:"progress"`
	CoverURL      string        `json:"coverUrl"`
}

func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TemporaryIDPrefix)
}
