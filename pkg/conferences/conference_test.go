package conferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"confirmed", StatusConfirmed},
		{"Confirmed", StatusConfirmed},
		{"  CONFIRMED ", StatusConfirmed},
		{"tentative", StatusTentative},
		{"expected", StatusTentative},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"bogus", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStatus(tt.in), "input %q", tt.in)
	}
}

func TestMissingFields(t *testing.T) {
	c := Conference{
		Name:      "ConfA",
		Category:  "DeFi",
		Region:    "US",
		StartDate: "03/10",
		Status:    "confirmed",
		Year:      2025,
	}

	assert.Equal(t, []string{FieldEndDate, FieldLocation, FieldSpeaker, FieldAttendees}, c.MissingFields())
	assert.False(t, c.Complete())

	c.EndDate = "03/12"
	c.Location = "Moscone Center, San Francisco"
	c.Speaker = "A. Speaker"
	c.Attendees = "5000+"
	assert.Empty(t, c.MissingFields())
	assert.True(t, c.Complete())
}

func TestMissingFieldsWhitespaceIsEmpty(t *testing.T) {
	c := Conference{Name: "ConfB", Location: "   "}
	assert.Contains(t, c.MissingFields(), FieldLocation)
}

func TestFieldRoundTrip(t *testing.T) {
	var c Conference
	for _, f := range TrackedFields {
		c.SetField(f, "x-"+f)
	}
	for _, f := range TrackedFields {
		assert.Equal(t, "x-"+f, c.Field(f))
	}

	// Unknown names are ignored on set and empty on get.
	c.SetField("Quarter", "Q1")
	assert.Equal(t, "", c.Field("Quarter"))
}
