package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
)

func TestCSVSaveLoadRoundTrip(t *testing.T) {
	store, err := NewCSV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := []conferences.Conference{
		{Name: "ConfA", Category: "DeFi", Region: "US", StartDate: "03/10", Year: 2026},
		{Name: "ConfB", Category: "Infra", Region: "EU", Status: "tentative", Year: 2026},
	}

	require.NoError(t, store.Save(ctx, 2026, in))

	out, err := store.Load(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCSVLoadMissingPartition(t *testing.T) {
	store, err := NewCSV(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), 2031)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsStoreError(err))
}

func TestCSVSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCSV(dir)
	require.NoError(t, err)
	ctx := context.Background()

	first := []conferences.Conference{{Name: "ConfA", Year: 2026}}
	require.NoError(t, store.Save(ctx, 2026, first))

	// A save writes through a temp file and renames; no temp files are
	// left behind and the partition stays readable.
	require.NoError(t, store.Save(ctx, 2026, []conferences.Conference{
		{Name: "ConfA", Year: 2026},
		{Name: "ConfB", Year: 2026},
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "conferences_2026.csv", entries[0].Name())

	out, err := store.Load(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestReadFileSeedExport(t *testing.T) {
	// Seed exports use "Name", sparse rows, and bare-year divider rows.
	path := filepath.Join(t.TempDir(), "seed.csv")
	seed := "Name,Category,Region,Start Date,End Date,Location,Speaker,Attendees,Status\n" +
		"ConfA,DeFi,US,03/10,03/12,Miami,Someone,4000,Confirmed\n" +
		"2026\n" +
		"ConfB,Infra,EU\n"
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "ConfA", records[0].Name)
	assert.Equal(t, "Miami", records[0].Location)
	assert.Equal(t, "2026", records[1].Name) // divider row survives for Split
	assert.Equal(t, "ConfB", records[2].Name)
	assert.Empty(t, records[2].Location)
}
