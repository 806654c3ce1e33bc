package conferences

import (
	"strconv"
	"strings"
)

// Split partitions records by year. A populated Year on the record wins;
// otherwise a marker row (a row whose name cell is a bare year, used as a
// section divider in exported spreadsheets) switches the partition for the
// rows that follow it. Marker rows and rows without a name are dropped.
// defaultYear applies to leading rows before any marker.
func Split(records []Conference, defaultYear int) map[int][]Conference {
	parts := make(map[int][]Conference)
	current := defaultYear

	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		if y, err := strconv.Atoi(name); err == nil && y >= 1900 && y <= 2200 {
			current = y
			continue
		}
		if rec.Year != 0 {
			rec.Name = name
			parts[rec.Year] = append(parts[rec.Year], rec)
			continue
		}
		rec.Name = name
		rec.Year = current
		parts[current] = append(parts[current], rec)
	}

	return parts
}

// Template builds records for year from a base partition: identity fields
// (name, category, region) carry over, tracked fields start empty.
func Template(base []Conference, year int) []Conference {
	out := make([]Conference, 0, len(base))
	for _, rec := range base {
		out = append(out, Conference{
			Name:     rec.Name,
			Category: rec.Category,
			Region:   rec.Region,
			Year:     year,
		})
	}
	return out
}

// MergeExisting overlays already-known records onto a template by name.
// Only non-empty values from existing records are copied, so template
// identity fields survive when the existing row is sparse. Existing
// records with no template counterpart are appended, preserving their
// input order.
func MergeExisting(template, existing []Conference) []Conference {
	index := make(map[string]int, len(template))
	merged := make([]Conference, len(template))
	copy(merged, template)
	for i, rec := range merged {
		index[rec.Name] = i
	}

	for _, rec := range existing {
		i, ok := index[rec.Name]
		if !ok {
			merged = append(merged, rec)
			continue
		}
		if rec.Category != "" {
			merged[i].Category = rec.Category
		}
		if rec.Region != "" {
			merged[i].Region = rec.Region
		}
		for _, f := range TrackedFields {
			if v := strings.TrimSpace(rec.Field(f)); v != "" {
				merged[i].SetField(f, v)
			}
		}
	}

	return merged
}
