package demo

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/gateway"
)

//go:embed assets
var embeddedAssets embed.FS

// SampleRecords returns the bundled sample books in display order, newest
// first. Ids and timestamps are left for the store to assign.
func SampleRecords() ([]entities.Record, error) {
	data, err := embeddedAssets.ReadFile("assets/books.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded samples: %w", err)
	}

	var records []entities.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode embedded samples: %w", err)
	}
	return records, nil
}

// Seed inserts the sample books into gw so that a newest-first listing shows
// them in display order. It returns the number of books inserted.
func Seed(ctx context.Context, gw gateway.Gateway) (int, error) {
	records, err := SampleRecords()
	if err != nil {
		return 0, err
	}

	inserted := 0
	for i := len(records) - 1; i >= 0; i-- {
		if _, err := gw.InsertOne(ctx, records[i]); err != nil {
			return inserted, fmt.Errorf("insert %q: %w", records[i].Title, err)
		}
		inserted++
	}
	return inserted, nil
}

// HasSamples reports whether the sample data is embedded and readable.
func HasSamples() bool {
	records, err := SampleRecords()
	return err == nil && len(records) > 0
}
