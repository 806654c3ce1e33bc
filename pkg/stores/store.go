// Package stores provides the record store backends for conference data.
// A Store loads and saves one year partition at a time; both operations are
// atomic from the caller's perspective. Backends are selected at
// construction time, never branched on at call sites.
package stores

import (
	"context"
	"strconv"
	"strings"

	"github.com/confsync/confsync/pkg/conferences"
)

// Store is the record store contract. Save must never leave a half-written
// partition visible to a subsequent Load.
type Store interface {
	// Load returns all records in the given year partition.
	Load(ctx context.Context, year int) ([]conferences.Conference, error)

	// Save replaces the given year partition with records.
	Save(ctx context.Context, year int, records []conferences.Conference) error
}

// Initializer is implemented by backends that need one-time setup beyond
// writing partitions (e.g. a metrics dashboard tab).
type Initializer interface {
	Init(ctx context.Context) error
}

// header is the canonical column order shared by all backends.
var header = []string{
	"Conference Name",
	"Category",
	"Region",
	conferences.FieldStartDate,
	conferences.FieldEndDate,
	conferences.FieldLocation,
	conferences.FieldSpeaker,
	conferences.FieldAttendees,
	conferences.FieldStatus,
	"Year",
}

// toRow flattens a record into the canonical column order.
func toRow(c conferences.Conference) []string {
	year := ""
	if c.Year != 0 {
		year = strconv.Itoa(c.Year)
	}
	return []string{
		c.Name,
		c.Category,
		c.Region,
		c.StartDate,
		c.EndDate,
		c.Location,
		c.Speaker,
		c.Attendees,
		c.Status,
		year,
	}
}

// fromRow builds a record from a row using the column positions found in
// the file's header. Unknown columns are ignored; short rows are padded.
func fromRow(cols map[string]int, row []string) conferences.Conference {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var c conferences.Conference
	c.Name = cell("Conference Name")
	c.Category = cell("Category")
	c.Region = cell("Region")
	c.StartDate = cell(conferences.FieldStartDate)
	c.EndDate = cell(conferences.FieldEndDate)
	c.Location = cell(conferences.FieldLocation)
	c.Speaker = cell(conferences.FieldSpeaker)
	c.Attendees = cell(conferences.FieldAttendees)
	c.Status = cell(conferences.FieldStatus)
	if y, err := strconv.Atoi(cell("Year")); err == nil {
		c.Year = y
	}
	return c
}

// columnIndex maps header names to positions, matching case-insensitively
// so hand-edited files keep working.
func columnIndex(headerRow []string) map[string]int {
	cols := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		cols[canonicalColumn(name)] = i
	}
	return cols
}

// canonicalColumn normalizes a header cell to the canonical column name.
func canonicalColumn(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, known := range header {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	// The seed export uses "Name" for the first column.
	if strings.EqualFold(trimmed, "Name") {
		return "Conference Name"
	}
	return trimmed
}
