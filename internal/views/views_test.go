package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func sampleBooks() []entities.Book {
	return []entities.Book{
		{ID: "1", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Category: "Fiction", ReadingStatus: entities.ReadingStatusCompleted, Progress: 100},
		{ID: "2", Title: "1984", Author: "George Orwell", Category: "Science Fiction", ReadingStatus: entities.ReadingStatusReading, Progress: 45},
		{ID: "3", Title: "The Hobbit", Author: "J.R.R. Tolkien", Category: "Fantasy", ReadingStatus: entities.ReadingStatusReading, Progress: 30},
		{ID: "4", Title: "Atomic Habits", Author: "James Clear", Category: "Self-Help", ReadingStatus: entities.ReadingStatusNotStarted},
		{ID: "5", Title: "Nineteen Eighty-Four Companion", Author: "Reader of 1984", Category: "Fiction", ReadingStatus: entities.ReadingStatusNotStarted},
	}
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestFilter(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"no filter", "", AllCategories, titles(books)},
		{"empty category means all", "", "", titles(books)},
		{"title or author contains query", "1984", AllCategories, []string{"1984", "Nineteen Eighty-Four Companion"}},
		{"case insensitive", "TOLKIEN", AllCategories, []string{"The Hobbit"}},
		{"category only", "", "Fantasy", []string{"The Hobbit"}},
		{"query and category combined", "the", "Fiction", []string{"The Great Gatsby"}},
		{"no match", "dune", AllCategories, []string{}},
		{"category is exact", "", "fiction", []string{}},
		{"spaces are part of the text", " hobbit", AllCategories, []string{"The Hobbit"}},
		{"trailing space is not trimmed", "hobbit ", AllCategories, []string{}},
		{"whitespace-only query is a substring", "  ", AllCategories, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(books, tt.query, tt.category)))
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	books := sampleBooks()
	_ = Filter(books, "hobbit", "Fantasy")
	assert.Equal(t, sampleBooks(), books)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Fantasy", "Fiction", "Science Fiction", "Self-Help"}, Categories(sampleBooks()))
	assert.Empty(t, Categories(nil))
}

func TestComputeStats(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil))
		assert.Equal(t, Stats{}, ComputeStats([]entities.Book{}))
	})

	t.Run("counts and rounded average", func(t *testing.T) {
		// (100 + 45 + 30 + 0 + 0) / 5 = 35
		assert.Equal(t, Stats{Total: 5, Reading: 2, Completed: 1, AvgProgress: 35}, ComputeStats(sampleBooks()))
	})

	t.Run("rounds half up", func(t *testing.T) {
		books := []entities.Book{{Progress: 50}, {Progress: 51}}
		assert.Equal(t, 51, ComputeStats(books).AvgProgress)
	})
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Showing 6 of 6 books", Summary(6, 6, "", AllCategories))
	assert.Equal(t, `Showing 1 of 6 books matching "tolkien"`, Summary(1, 6, "tolkien", AllCategories))
	assert.Equal(t, `Showing 5 of 6 books matching " "`, Summary(5, 6, " ", AllCategories))
	assert.Equal(t, "Showing 1 of 6 books in Fantasy", Summary(1, 6, "", "Fantasy"))
	assert.Equal(t, `Showing 0 of 6 books matching "x" in Romance`, Summary(0, 6, "x", "Romance"))
}
