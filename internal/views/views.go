// Package views derives filtered subsets and aggregate statistics from a
// collection snapshot. Everything here is pure and cheap enough to recompute
// on every request.
package views

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// AllCategories disables the category filter.
const AllCategories = "All"

type Stats struct {
	Total       int `json:"total"`
	Reading     int `json:"reading"`
	Completed   int `json:"completed"`
	AvgProgress int `json:"avgProgress"`
}

// Filter returns the books whose title or author contains query
// (case-insensitive substring) and whose category equals category. An empty
// query or AllCategories (or "") matches everything. Order is preserved.
func Filter(books []entities.Book, query, category string) []entities.Book {
	needle := strings.ToLower(query)
	out := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if !matchesQuery(b, needle) {
			continue
		}
		if category != "" && category != AllCategories && b.Category != category {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesQuery(b entities.Book, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle)
}

// Categories returns the distinct categories present, sorted alphabetically.
func Categories(books []entities.Book) []string {
	seen := make(map[string]struct{}, len(books))
	out := make([]string, 0)
	for _, b := range books {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	sort.Strings(out)
	return out
}

// ComputeStats counts books by status and averages progress, rounded to the
// nearest integer. An empty collection yields all zeros.
func ComputeStats(books []entities.Book) Stats {
	var stats Stats
	var progress int
	for _, b := range books {
		stats.Total++
		switch b.ReadingStatus {
		case entities.ReadingStatusReading:
			stats.Reading++
		case entities.ReadingStatusCompleted:
			stats.Completed++
		}
		progress += b.Progress
	}
	if stats.Total > 0 {
		stats.AvgProgress = int(math.Round(float64(progress) / float64(stats.Total)))
	}
	return stats
}

// Summary renders the result line shown above a filtered list, e.g.
// `Showing 2 of 6 books matching "tolkien" in Fantasy`.
func Summary(shown, total int, query, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Showing %d of %d books", shown, total)
	if query != "" {
		fmt.Fprintf(&b, " matching %q", query)
	}
	if category != "" && category != AllCategories {
		fmt.Fprintf(&b, " in %s", category)
	}
	return b.String()
}
