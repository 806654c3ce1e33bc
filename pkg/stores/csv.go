package stores

import (
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	stderrors "errors"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
)

// CSV is a file-backed store with one CSV file per year partition under a
// data directory. Saves are atomic: write to a temp file in the same
// directory, then rename over the target.
type CSV struct {
	dir string
}

// Compile-time interface check.
var _ Store = (*CSV)(nil)

// NewCSV creates a CSV store rooted at dir, creating the directory if
// needed.
func NewCSV(dir string) (*CSV, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapStore("csv", "init", 0, err)
	}
	return &CSV{dir: dir}, nil
}

// path returns the partition file path for a year.
func (s *CSV) path(year int) string {
	return filepath.Join(s.dir, fmt.Sprintf("conferences_%d.csv", year))
}

// Load reads the year partition. A missing partition file reports
// errors.ErrNotFound via the wrapped store error.
func (s *CSV) Load(ctx context.Context, year int) ([]conferences.Conference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ReadFile(s.path(year))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewStoreError("csv", "load", year, errors.ErrNotFound)
		}
		return nil, errors.WrapStore("csv", "load", year, err)
	}

	logging.Debug().Int("year", year).Int("records", len(records)).Msg("Loaded partition from CSV")
	return records, nil
}

// Save replaces the year partition. The previous file stays intact unless
// the whole write succeeds.
func (s *CSV) Save(ctx context.Context, year int, records []conferences.Conference) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".conferences_%d-*.csv", year))
	if err != nil {
		return errors.WrapStore("csv", "save", year, errors.WrapIO("create", s.dir, err))
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(toRow(rec))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return errors.WrapStore("csv", "save", year, errors.WrapIO("write", tmpName, writeErr))
	}

	if err := os.Rename(tmpName, s.path(year)); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapStore("csv", "save", year, errors.WrapIO("rename", s.path(year), err))
	}

	logging.Info().Int("year", year).Int("records", len(records)).Str("file", s.path(year)).Msg("Saved partition")
	return nil
}

// ReadFile reads any conference CSV (a partition file or the seed export).
// Rows are accepted with varying field counts so section-divider rows in
// seed exports survive for the splitter to see.
func ReadFile(path string) ([]conferences.Conference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := columnIndex(rows[0])
	records := make([]conferences.Conference, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, fromRow(cols, row))
	}
	return records, nil
}
