package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestToApplication_Defaults(t *testing.T) {
	book := ToApplication(entities.Record{ID: "abc", Title: "Dune", Author: "Frank Herbert"})

	assert.Equal(t, "abc", book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, entities.DefaultCategory, book.Category)
	assert.Equal(t, "", book.Description)
	assert.Equal(t, "", book.Notes)
	assert.Equal(t, 0, book.Rating)
	assert.Equal(t, entities.ReadingStatusNotStarted, book.ReadingStatus)
	assert.Equal(t, 0, book.Progress)
	assert.Equal(t, entities.DefaultCoverURL, book.CoverURL)
	assert.Nil(t, book.CreatedAt)
}

func TestToApplication_EmptyStringsDegradeToDefaults(t *testing.T) {
	book := ToApplication(entities.Record{
		ID:            "1",
		Category:      strPtr(""),
		ReadingStatus: strPtr(""),
		CoverURL:      strPtr(""),
	})

	assert.Equal(t, entities.DefaultCategory, book.Category)
	assert.Equal(t, entities.ReadingStatusNotStarted, book.ReadingStatus)
	assert.Equal(t, entities.DefaultCoverURL, book.CoverURL)
}

func TestToApplication_MalformedValues(t *testing.T) {
	tests := []struct {
		name     string
		record   entities.Record
		rating   int
		progress int
		status   entities.ReadingStatus
	}{
		{
			name:     "rating above range is clamped",
			record:   entities.Record{Rating: intPtr(9)},
			rating:   5,
			status:   entities.ReadingStatusNotStarted,
		},
		{
			name:     "negative progress is clamped",
			record:   entities.Record{Progress: intPtr(-20)},
			progress: 0,
			status:   entities.ReadingStatusNotStarted,
		},
		{
			name:     "progress above range is clamped",
			record:   entities.Record{Progress: intPtr(250)},
			progress: 100,
			status:   entities.ReadingStatusNotStarted,
		},
		{
			name:   "unknown status falls back",
			record: entities.Record{ReadingStatus: strPtr("Abandoned")},
			status: entities.ReadingStatusNotStarted,
		},
		{
			name:   "known status kept",
			record: entities.Record{ReadingStatus: strPtr("Reading")},
			status: entities.ReadingStatusReading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := ToApplication(tt.record)
			assert.Equal(t, tt.rating, book.Rating)
			assert.Equal(t, tt.progress, book.Progress)
			assert.Equal(t, tt.status, book.ReadingStatus)
		})
	}
}

func TestToApplication_GenreAlias(t *testing.T) {
	t.Run("genre used when category absent", func(t *testing.T) {
		book := ToApplication(entities.Record{Genre: strPtr("Fantasy")})
		assert.Equal(t, "Fantasy", book.Category)
	})

	t.Run("category wins over genre", func(t *testing.T) {
		book := ToApplication(entities.Record{Category: strPtr("Romance"), Genre: strPtr("Fantasy")})
		assert.Equal(t, "Romance", book.Category)
	})

	t.Run("genre never written back", func(t *testing.T) {
		record := ToStorage(ToApplication(entities.Record{Genre: strPtr("Fantasy")}), false)
		assert.Nil(t, record.Genre)
		require.NotNil(t, record.Category)
		assert.Equal(t, "Fantasy", *record.Category)
	})
}

func TestToStorage_ExcludeID(t *testing.T) {
	book := entities.Book{ID: "42", Title: "Emma", Author: "Jane Austen"}

	assert.Equal(t, "", ToStorage(book, true).ID)
	assert.Equal(t, "42", ToStorage(book, false).ID)
}

func TestToStorage_FillsDefaults(t *testing.T) {
	record := ToStorage(entities.Book{Title: "Emma", Author: "Jane Austen"}, true)

	require.NotNil(t, record.Category)
	require.NotNil(t, record.Description)
	require.NotNil(t, record.Notes)
	require.NotNil(t, record.Rating)
	require.NotNil(t, record.ReadingStatus)
	require.NotNil(t, record.Progress)
	require.NotNil(t, record.CoverURL)

	assert.Equal(t, entities.DefaultCategory, *record.Category)
	assert.Equal(t, "", *record.Description)
	assert.Equal(t, "", *record.Notes)
	assert.Equal(t, 0, *record.Rating)
	assert.Equal(t, string(entities.ReadingStatusNotStarted), *record.ReadingStatus)
	assert.Equal(t, 0, *record.Progress)
	assert.Equal(t, entities.DefaultCoverURL, *record.CoverURL)
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	books := []entities.Book{
		{
			ID:            "uuid-1",
			Title:         "The Hobbit",
			Author:        "J.R.R. Tolkien",
			Category:      "Fantasy",
			Description:   "There and back again.",
			Notes:         "Reread every winter.",
			Rating:        5,
			ReadingStatus: entities.ReadingStatusReading,
			Progress:      42,
			CoverURL:      "https://example.com/hobbit.jpg",
			CreatedAt:     &created,
			LastUpdated:   &updated,
		},
		FromDraft(entities.Draft{Title: "1984", Author: "George Orwell"}, "tmp-1"),
	}

	for _, b := range books {
		t.Run(b.Title, func(t *testing.T) {
			assert.Equal(t, b, ToApplication(ToStorage(b, false)))
		})
	}
}

func TestFromDraft(t *testing.T) {
	book := FromDraft(entities.Draft{
		Title:    "Atomic Habits",
		Author:   "James Clear",
		Category: "Self-Help",
		Rating:   4,
	}, "tmp-123")

	assert.Equal(t, "tmp-123", book.ID)
	assert.True(t, book.Pending())
	assert.Equal(t, "Self-Help", book.Category)
	assert.Equal(t, 4, book.Rating)
	assert.Equal(t, entities.ReadingStatusNotStarted, book.ReadingStatus)
	assert.Equal(t, entities.DefaultCoverURL, book.CoverURL)
}

func TestToApplicationAll_PreservesOrder(t *testing.T) {
	books := ToApplicationAll([]entities.Record{
		{ID: "3", Title: "C"},
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
	})

	require.Len(t, books, 3)
	assert.Equal(t, "3", books[0].ID)
	assert.Equal(t, "1", books[1].ID)
	assert.Equal(t, "2", books[2].ID)
}
