package confsync

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/enrich"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
)

// RunCycle runs one refresh cycle: load the target partition, select
// incomplete records up to the batch limit, enrich each sequentially with
// retries, apply validated values, and persist once at the end iff
// anything changed. Record-level failures never abort the batch; store
// failures do.
func (c *client) RunCycle(ctx context.Context) (*Summary, error) {
	if !c.beginCycle() {
		return nil, errors.ErrAlreadyRunning
	}

	summary := &Summary{StartedAt: utc.Now()}
	start := time.Now()
	defer func() {
		summary.Duration = time.Since(start)
		c.endCycle(summary)
	}()

	if err := c.enricher.Ping(ctx); err != nil {
		summary.Error = err.Error()
		logging.Error().Err(err).Msg("API connection test failed, skipping cycle")
		return summary, err
	}

	year := c.options.targetYear
	records, err := c.store.Load(ctx, year)
	if err != nil {
		summary.Error = err.Error()
		logging.Error().Err(err).Int("year", year).Msg("Loading partition failed, aborting cycle")
		return summary, err
	}
	if len(records) == 0 {
		summary.Error = errors.ErrNoData.Error()
		logging.Warn().Int("year", year).Msg("Partition is empty, initialize the dataset first")
		return summary, errors.NewStoreError("store", "load", year, errors.ErrNoData)
	}

	candidates := conferences.SelectIncomplete(records, c.options.batchSize)
	if len(candidates) == 0 {
		logging.Info().Int("year", year).Msg("No conferences with missing information")
		return summary, nil
	}
	logging.Info().
		Int("year", year).
		Int("candidates", len(candidates)).
		Msg("Starting refresh cycle")

	for i, cand := range candidates {
		// A shutdown between records stops the batch; applied updates
		// are still persisted below.
		if ctx.Err() != nil {
			logging.Warn().Int("remaining", len(candidates)-i).Msg("Cycle interrupted, persisting applied updates")
			break
		}
		if i > 0 {
			c.interCallDelay(ctx)
		}

		fields, err := c.enrichWithRetry(ctx, cand)
		summary.Processed++
		if err != nil {
			summary.Failed++
			logging.Warn().Err(err).Str("conference", cand.Name).Msg("Record skipped after exhausting retries")
			continue
		}
		if fields == nil {
			continue
		}

		updated, applied := enrich.Apply(cand.Conference, fields)
		if applied > 0 {
			records[cand.Index] = updated
			summary.Updated++
			logging.Info().
				Str("conference", cand.Name).
				Int("fields", applied).
				Msg("Record updated")
		}
	}

	if summary.Updated > 0 {
		// The save must complete even when the parent context was
		// cancelled mid-batch, so the applied updates are not lost.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.options.callTimeout)
		defer cancel()
		if err := c.store.Save(saveCtx, year, records); err != nil {
			summary.Error = err.Error()
			logging.Error().Err(err).Int("year", year).Msg("Persisting batch failed")
			return summary, err
		}
	}

	logging.Info().
		Int("processed", summary.Processed).
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("Refresh cycle completed")
	return summary, nil
}

// enrichWithRetry runs the bounded retry loop for one record. Each
// attempt gets its own timeout that survives a parent cancellation, so an
// in-flight call finishes or times out instead of being cut off.
func (c *client) enrichWithRetry(ctx context.Context, cand conferences.Candidate) (map[string]string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.options.retries; attempt++ {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.options.callTimeout)
		fields, err := c.enricher.Enrich(callCtx, cand)
		cancel()
		if err == nil {
			return fields, nil
		}

		lastErr = err
		logging.Debug().
			Err(err).
			Str("conference", cand.Name).
			Int("attempt", attempt).
			Msg("Enrichment attempt failed")

		if attempt < c.options.retries {
			// Linear backoff, interruptible by shutdown.
			if !sleepCtx(ctx, time.Duration(attempt)*c.options.callDelay) {
				break
			}
		}
	}

	return nil, &errors.EnrichmentError{
		Conference: cand.Name,
		Attempt:    c.options.retries,
		Err:        lastErr,
	}
}

// interCallDelay enforces the minimum gap between API calls.
func (c *client) interCallDelay(ctx context.Context) {
	sleepCtx(ctx, c.options.callDelay)
}

// sleepCtx sleeps for d unless the context ends first. Reports whether
// the full sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// beginCycle transitions Idle -> Running. Reports false when a cycle is
// already in flight.
func (c *client) beginCycle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	return true
}

// endCycle transitions Running -> Idle and folds the summary into the
// lifetime counters.
func (c *client) endCycle(summary *Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.lastRun = summary
	c.totalProcessed += summary.Processed
	c.totalUpdated += summary.Updated
	c.totalFailed += summary.Failed
}
