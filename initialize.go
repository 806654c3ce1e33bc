package confsync

import (
	"context"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
	"github.com/confsync/confsync/pkg/stores"
)

// Initialize seeds the store from a combined source file. The file holds
// the source-year records first, then the target-year section introduced
// by a bare-year marker row. The source partition is written as-is; the
// target partition is a blank template derived from it, overlaid with any
// values the target section already carries. Re-running preserves
// everything previously filled in.
func Initialize(ctx context.Context, store stores.Store, inputPath string, sourceYear, targetYear int) error {
	records, err := stores.ReadFile(inputPath)
	if err != nil {
		return errors.NewConfigError("init", "reading seed file", err)
	}
	if len(records) == 0 {
		return errors.NewConfigError("init", "seed file has no records", errors.ErrNoData)
	}

	partitions := conferences.Split(records, sourceYear)
	source := partitions[sourceYear]
	if len(source) == 0 {
		return errors.NewConfigError("init", "seed file has no source-year records", errors.ErrNoData)
	}

	template := conferences.Template(source, targetYear)
	target := conferences.MergeExisting(template, partitions[targetYear])

	// A re-run must not clobber values a previous cycle already filled
	// in, so the stored partition is overlaid last.
	if existing, err := store.Load(ctx, targetYear); err == nil {
		target = conferences.MergeExisting(target, existing)
	} else if !errors.IsNotFound(err) {
		return err
	}

	if err := store.Save(ctx, sourceYear, source); err != nil {
		return err
	}
	if err := store.Save(ctx, targetYear, target); err != nil {
		return err
	}

	if init, ok := store.(stores.Initializer); ok {
		if err := init.Init(ctx); err != nil {
			return err
		}
	}

	logging.Info().
		Str("input", inputPath).
		Int("source_year", sourceYear).
		Int("source_records", len(source)).
		Int("target_year", targetYear).
		Int("target_records", len(target)).
		Msg("Dataset initialized")
	return nil
}
