package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponsePlainJSON(t *testing.T) {
	fields, err := ParseResponse(`{"Start Date": "05/15", "Location": "Convention Center, Miami"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Start Date": "05/15",
		"Location":   "Convention Center, Miami",
	}, fields)
}

func TestParseResponseFencedJSON(t *testing.T) {
	text := "```json\n{\"Status\": \"confirmed\"}\n```"
	fields, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "confirmed"}, fields)
}

func TestParseResponseProseWrappedJSON(t *testing.T) {
	text := "Here is what I found:\n{\"Speaker\": \"Someone\"}\nHope that helps."
	fields, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Speaker": "Someone"}, fields)
}

func TestParseResponseFalseMeansNothingFound(t *testing.T) {
	fields, err := ParseResponse("false")
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = ParseResponse("  FALSE  ")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestParseResponseDropsNullAndEmpty(t *testing.T) {
	fields, err := ParseResponse(`{"Start Date": null, "End Date": "", "Location": "Berlin"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Location": "Berlin"}, fields)
}

func TestParseResponseAllNullMeansNothingFound(t *testing.T) {
	fields, err := ParseResponse(`{"Start Date": null, "Location": null}`)
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestParseResponseNumericAttendees(t *testing.T) {
	fields, err := ParseResponse(`{"Attendees": 5000}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Attendees": "5000"}, fields)
}

func TestParseResponseRejectsUnknownField(t *testing.T) {
	_, err := ParseResponse(`{"Venue Capacity": "9000"}`)
	assert.Error(t, err)
}

func TestParseResponseMalformed(t *testing.T) {
	_, err := ParseResponse("not json at all")
	assert.Error(t, err)

	_, err = ParseResponse("")
	assert.Error(t, err)
}
