package gateway

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// timeLayouts are the timestamp shapes PostgREST emits for timestamptz and
// timestamp columns. Values without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// wireRecord decodes one row of a store response without ever failing. A
// field that cannot be read is left nil so the mapper supplies its default.
// Rows that are not JSON objects are marked invalid and dropped.
type wireRecord struct {
	entities.Record
	valid bool
}

func (w *wireRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		w.valid = false
		return nil
	}
	w.valid = true

	r := &w.Record
	if id := textField(fields["id"]); id != nil {
		r.ID = *id
	}
	if title := textField(fields["title"]); title != nil {
		r.Title = *title
	}
	if author := textField(fields["author"]); author != nil {
		r.Author = *author
	}
	r.Category = textField(fields["category"])
	r.Genre = textField(fields["genre"])
	r.Description = textField(fields["description"])
	r.Notes = textField(fields["notes"])
	r.Rating = intField(fields["rating"])
	r.ReadingStatus = textField(fields["reading_status"])
	r.Progress = intField(fields["progress"])
	r.CoverURL = textField(fields["cover_url"])
	r.CreatedAt = timeField(fields["created_at"])
	r.LastUpdated = timeField(fields["last_updated"])
	return nil
}

func records(rows []wireRecord) []entities.Record {
	out := make([]entities.Record, 0, len(rows))
	for _, row := range rows {
		if row.valid {
			out = append(out, row.Record)
		}
	}
	return out
}

// textField reads a string. Numbers keep their literal text, which covers
// integer primary keys.
func textField(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		s = n.String()
		return &s
	}
	return nil
}

// intField reads a whole number from a JSON number or numeric string.
// Fractions are rounded to the nearest integer.
func intField(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}

	n := int(math.Round(f))
	return &n
}

func timeField(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
