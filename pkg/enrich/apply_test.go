package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsync/confsync/pkg/conferences"
)

func TestApplyFillsOnlyEmptyFields(t *testing.T) {
	conf := conferences.Conference{
		Name:     "ConfA",
		Location: "Verified Venue, Austin", // manually verified, must survive
		Year:     2026,
	}

	updated, n := Apply(conf, map[string]string{
		conferences.FieldStartDate: "05/02",
		conferences.FieldLocation:  "Some Other Venue",
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, "05/02", updated.StartDate)
	assert.Equal(t, "Verified Venue, Austin", updated.Location)
}

func TestApplyInvalidStatusDefaultsToUnknown(t *testing.T) {
	conf := conferences.Conference{Name: "ConfA", Year: 2026}

	updated, n := Apply(conf, map[string]string{
		conferences.FieldStartDate: "05/02",
		conferences.FieldStatus:    "bogus",
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, "05/02", updated.StartDate)
	assert.Equal(t, string(conferences.StatusUnknown), updated.Status)
	// Untouched fields stay empty.
	assert.Empty(t, updated.EndDate)
	assert.Empty(t, updated.Speaker)
}

func TestApplyDiscardsInvalidValues(t *testing.T) {
	conf := conferences.Conference{Name: "ConfA", Year: 2026}

	updated, n := Apply(conf, map[string]string{
		conferences.FieldStartDate: "May 2nd",  // not MM/DD
		conferences.FieldEndDate:   "13/40",    // impossible date
		conferences.FieldAttendees: "lots",     // no leading count
		conferences.FieldLocation:  "Lisbon",   // fine
	})

	assert.Equal(t, 1, n)
	assert.Empty(t, updated.StartDate)
	assert.Empty(t, updated.EndDate)
	assert.Empty(t, updated.Attendees)
	assert.Equal(t, "Lisbon", updated.Location)
}

func TestApplyNormalizesDates(t *testing.T) {
	conf := conferences.Conference{Name: "ConfA", Year: 2026}
	updated, _ := Apply(conf, map[string]string{conferences.FieldStartDate: "5/2"})
	assert.Equal(t, "05/02", updated.StartDate)
}

func TestApplyAttendeeShapes(t *testing.T) {
	for _, ok := range []string{"5000", "5000+", "3000-5000", "10k attendees"} {
		conf := conferences.Conference{Name: "ConfA", Year: 2026}
		updated, n := Apply(conf, map[string]string{conferences.FieldAttendees: ok})
		require.Equal(t, 1, n, "value %q should be accepted", ok)
		assert.Equal(t, ok, updated.Attendees)
	}
}

func TestApplyIdempotent(t *testing.T) {
	conf := conferences.Conference{Name: "ConfA", Year: 2026}
	fields := map[string]string{
		conferences.FieldStartDate: "05/02",
		conferences.FieldStatus:    "confirmed",
	}

	once, n1 := Apply(conf, fields)
	twice, n2 := Apply(once, fields)

	assert.Equal(t, 2, n1)
	assert.Equal(t, 0, n2)
	assert.Equal(t, once, twice)
}

func TestApplyNeverClearsFields(t *testing.T) {
	conf := conferences.Conference{
		Name: "ConfA", StartDate: "01/01", EndDate: "01/02",
		Location: "NYC", Speaker: "S", Attendees: "100", Status: "confirmed",
		Year: 2026,
	}

	updated, n := Apply(conf, map[string]string{
		conferences.FieldStartDate: "09/09",
		conferences.FieldStatus:    "cancelled",
	})

	assert.Equal(t, 0, n)
	assert.Equal(t, conf, updated)
	assert.True(t, updated.Complete())
}
