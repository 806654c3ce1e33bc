package enrich

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/logging"
)

// Apply validates a field map and merges it into the record's empty
// fields, returning the updated copy and the number of fields written.
// An already-filled field is never replaced, which makes Apply idempotent
// and keeps manually verified data safe from the API. Invalid values are
// discarded field by field; the rest still apply.
func Apply(conf conferences.Conference, fields map[string]string) (conferences.Conference, int) {
	applied := 0

	for _, name := range conferences.TrackedFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(conf.Field(name)) != "" {
			continue
		}

		value, err := validateField(name, raw)
		if err != nil {
			logging.Debug().
				Str("conference", conf.Name).
				Str("field", name).
				Str("value", raw).
				Err(err).
				Msg("Discarding invalid field value")
			continue
		}

		conf.SetField(name, value)
		applied++
	}

	return conf, applied
}

// validateField normalizes one field value or rejects it.
func validateField(name, raw string) (string, error) {
	value := strings.TrimSpace(raw)

	switch name {
	case conferences.FieldStartDate, conferences.FieldEndDate:
		return validateDate(value)
	case conferences.FieldAttendees:
		return validateAttendees(value)
	case conferences.FieldStatus:
		// Anything unrecognized collapses to "unknown" rather than being
		// rejected, so a found-but-odd status still marks the field filled.
		return string(conferences.ParseStatus(value)), nil
	default:
		if value == "" {
			return "", fmt.Errorf("empty value")
		}
		return value, nil
	}
}

// validateDate accepts M/D or MM/DD and normalizes to MM/DD.
func validateDate(value string) (string, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("date %q is not MM/DD", value)
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("date %q has invalid month", value)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("date %q has invalid day", value)
	}

	return fmt.Sprintf("%02d/%02d", month, day), nil
}

// validateAttendees accepts counts, ranges ("3000-5000"), and loose
// descriptions with a leading count ("5000+", "10k attendees").
func validateAttendees(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("empty attendee count")
	}
	runes := []rune(value)
	if !unicode.IsDigit(runes[0]) {
		return "", fmt.Errorf("attendees %q does not start with a count", value)
	}
	return value, nil
}
