package conferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByMarkerRow(t *testing.T) {
	in := []Conference{
		{Name: "ConfA", Category: "DeFi", Region: "US", StartDate: "03/10"},
		{Name: "ConfB", Category: "Infra", Region: "EU"},
		{Name: "2026"}, // section divider
		{Name: "ConfC", Category: "DeFi", Region: "APAC"},
	}

	parts := Split(in, 2025)

	require.Len(t, parts[2025], 2)
	require.Len(t, parts[2026], 1)
	assert.Equal(t, "ConfA", parts[2025][0].Name)
	assert.Equal(t, 2025, parts[2025][0].Year)
	assert.Equal(t, "ConfC", parts[2026][0].Name)
	assert.Equal(t, 2026, parts[2026][0].Year)
}

func TestSplitExplicitYearWins(t *testing.T) {
	in := []Conference{
		{Name: "ConfA", Year: 2026},
		{Name: "ConfB"},
	}

	parts := Split(in, 2025)

	require.Len(t, parts[2026], 1)
	require.Len(t, parts[2025], 1)
	assert.Equal(t, "ConfA", parts[2026][0].Name)
}

func TestSplitDropsUnnamedRows(t *testing.T) {
	in := []Conference{
		{Name: "  "},
		{Name: "ConfA"},
	}

	parts := Split(in, 2025)
	require.Len(t, parts[2025], 1)
}

func TestTemplateShape(t *testing.T) {
	base := []Conference{
		{
			Name: "ConfA", Category: "DeFi", Region: "US",
			StartDate: "03/10", EndDate: "03/12", Location: "Miami",
			Speaker: "Someone", Attendees: "4000", Status: "confirmed",
			Year: 2025,
		},
	}

	tmpl := Template(base, 2026)

	require.Len(t, tmpl, 1)
	got := tmpl[0]
	assert.Equal(t, "ConfA", got.Name)
	assert.Equal(t, "DeFi", got.Category)
	assert.Equal(t, "US", got.Region)
	assert.Equal(t, 2026, got.Year)
	for _, f := range TrackedFields {
		assert.Empty(t, got.Field(f), "field %s must start empty", f)
	}
}

func TestMergeExisting(t *testing.T) {
	tmpl := Template([]Conference{
		{Name: "ConfA", Category: "DeFi", Region: "US", Year: 2025},
		{Name: "ConfB", Category: "Infra", Region: "EU", Year: 2025},
	}, 2026)

	existing := []Conference{
		{Name: "ConfB", Location: "Berlin", Status: "tentative", Year: 2026},
		{Name: "ConfNew", Category: "Gaming", Year: 2026},
	}

	merged := MergeExisting(tmpl, existing)

	require.Len(t, merged, 3)
	assert.Equal(t, "Berlin", merged[1].Location)
	assert.Equal(t, "tentative", merged[1].Status)
	// Identity fields survive a sparse existing row.
	assert.Equal(t, "Infra", merged[1].Category)
	assert.Equal(t, "ConfNew", merged[2].Name)
}

// Partition invariant: after initialization every base name lives in
// exactly one of the two partitions' template+base pair.
func TestPartitionInvariant(t *testing.T) {
	in := []Conference{
		{Name: "ConfA", Category: "DeFi", Region: "US"},
		{Name: "2026"},
		{Name: "ConfB", Category: "Infra", Region: "EU"},
	}

	parts := Split(in, 2025)
	tmpl := MergeExisting(Template(parts[2025], 2026), parts[2026])

	names := map[string]int{}
	for _, r := range parts[2025] {
		names[r.Name]++
	}
	nextNames := map[string]bool{}
	for _, r := range tmpl {
		assert.False(t, nextNames[r.Name], "duplicate %s in next-year partition", r.Name)
		nextNames[r.Name] = true
	}
	assert.True(t, nextNames["ConfA"], "2025 name must get a 2026 template row")
	assert.True(t, nextNames["ConfB"])
}
