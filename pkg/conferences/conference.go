// Package conferences defines the conference record model and the
// operations that work on whole record sets: splitting an input table into
// year partitions, building next-year templates, and selecting records
// that still have missing fields.
package conferences

import "strings"

// Status is the lifecycle state of a conference record.
type Status string

// Known conference statuses.
const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusUnknown   Status = "unknown"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps a free-form status string onto the known enum.
// Unrecognized values map to StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed", "confirm":
		return StatusConfirmed
	case "tentative", "expected", "likely":
		return StatusTentative
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// Canonical field names as they appear in store headers and in the
// enrichment request/response JSON.
const (
	FieldStartDate = "Start Date"
	FieldEndDate   = "End Date"
	FieldLocation  = "Location"
	FieldSpeaker   = "Speaker"
	FieldAttendees = "Attendees"
	FieldStatus    = "Status"
)

// TrackedFields are the fields the enrichment pipeline is allowed to fill,
// in stable order. A record is complete when all of them are non-empty.
var TrackedFields = []string{
	FieldStartDate,
	FieldEndDate,
	FieldLocation,
	FieldSpeaker,
	FieldAttendees,
	FieldStatus,
}

// Conference is one row of the dataset. Empty strings represent missing
// values so the column shape stays stable across all records.
type Conference struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Region    string `json:"region"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location"`
	Speaker   string `json:"speaker"`
	Attendees string `json:"attendees"`
	Status    string `json:"status"`
	Year      int    `json:"year"`
}

// Field returns the value of a tracked field by its canonical name.
func (c *Conference) Field(name string) string {
	switch name {
	case FieldStartDate:
		return c.StartDate
	case FieldEndDate:
		return c.EndDate
	case FieldLocation:
		return c.Location
	case FieldSpeaker:
		return c.Speaker
	case FieldAttendees:
		return c.Attendees
	case FieldStatus:
		return c.Status
	default:
		return ""
	}
}

// SetField sets a tracked field by its canonical name. Unknown names are
// ignored.
func (c *Conference) SetField(name, value string) {
	switch name {
	case FieldStartDate:
		c.StartDate = value
	case FieldEndDate:
		c.EndDate = value
	case FieldLocation:
		c.Location = value
	case FieldSpeaker:
		c.Speaker = value
	case FieldAttendees:
		c.Attendees = value
	case FieldStatus:
		c.Status = value
	}
}

// MissingFields returns the tracked fields that are still empty, in
// TrackedFields order.
func (c *Conference) MissingFields() []string {
	var missing []string
	for _, f := range TrackedFields {
		if strings.TrimSpace(c.Field(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every tracked field is filled.
func (c *Conference) Complete() bool {
	return len(c.MissingFields()) == 0
}
