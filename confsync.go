// Package confsync keeps a year-partitioned conference dataset fresh. It
// selects records with missing fields, asks a web-search-capable LLM API
// to supply values, validates and merges them, and persists the result,
// on a fixed schedule or on demand.
package confsync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/agentstation/utc"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/enrich"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/stores"
)

// Confsync manages the refresh lifecycle for one target-year partition.
type Confsync interface {
	// RunCycle runs one refresh cycle now. At most one cycle runs at a
	// time; a concurrent call fails with errors.ErrAlreadyRunning.
	RunCycle(ctx context.Context) (*Summary, error)

	// Trigger queues a cycle on the scheduler loop. Returns false when
	// the trigger was dropped (queue full or scheduler off).
	Trigger() bool

	// SchedulerOn starts the interval loop.
	SchedulerOn() error

	// SchedulerOff stops the interval loop. An in-flight record call is
	// allowed to finish or time out before the cycle winds down.
	SchedulerOff() error

	// Status returns a snapshot of scheduler state and counters.
	Status() Status

	// Preview returns the next records the selector would pick.
	Preview(ctx context.Context, limit int) ([]conferences.Candidate, error)

	// Export returns a snapshot of the target-year dataset.
	Export(ctx context.Context) (*Snapshot, error)
}

// Summary describes one completed (or aborted) refresh cycle.
type Summary struct {
	StartedAt utc.Time      `json:"started_at"`
	Duration  time.Duration `json:"duration_ms"`
	Processed int           `json:"processed"`
	Updated   int           `json:"updated"`
	Failed    int           `json:"failed"`
	Error     string        `json:"error,omitempty"`
}

// MarshalJSON reports the duration in the milliseconds the field name
// promises rather than encoding/json's raw nanoseconds.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		Duration int64 `json:"duration_ms"`
	}{alias(s), s.Duration.Milliseconds()})
}

// Status is the externally visible scheduler state.
type Status struct {
	Running        bool          `json:"running"`
	Interval       time.Duration `json:"interval_ms"`
	LastRun        *Summary      `json:"last_run,omitempty"`
	NextRun        *utc.Time     `json:"next_run,omitempty"`
	TotalProcessed int           `json:"total_processed"`
	TotalUpdated   int           `json:"total_updated"`
	TotalFailed    int           `json:"total_failed"`
}

// MarshalJSON reports the interval in milliseconds, matching the field
// name.
func (s Status) MarshalJSON() ([]byte, error) {
	type alias Status
	return json.Marshal(struct {
		alias
		Interval int64 `json:"interval_ms"`
	}{alias(s), s.Interval.Milliseconds()})
}

// Snapshot is an exported copy of the target-year dataset.
type Snapshot struct {
	ExportedAt  utc.Time                 `json:"exported_at"`
	Year        int                      `json:"year"`
	Total       int                      `json:"total"`
	Complete    int                      `json:"complete"`
	Conferences []conferences.Conference `json:"conferences"`
}

// client is the internal implementation of the Confsync interface.
type client struct {
	options *options

	store    stores.Store
	enricher enrich.Client

	// Cycle state; owned by the transition in RunCycle.
	mu             sync.Mutex
	running        bool
	lastRun        *Summary
	nextRun        *utc.Time
	totalProcessed int
	totalUpdated   int
	totalFailed    int

	// Scheduler loop plumbing.
	ticker     *time.Ticker
	triggerCh  chan struct{}
	stopCh     chan struct{}
	loopCancel context.CancelFunc
}

// Compile-time interface check.
var _ Confsync = (*client)(nil)

// New creates a Confsync instance. A store and an enrichment client are
// required.
func New(opts ...Option) (Confsync, error) {
	// triggerCh survives scheduler restarts; stopCh exists only while the
	// loop runs, so a nil stopCh means the scheduler is off.
	c := &client{
		options:   defaultOptions(),
		triggerCh: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "a record store is required"}
	}
	if c.enricher == nil {
		return nil, &errors.ValidationError{Field: "enricher", Message: "an enrichment client is required"}
	}

	return c, nil
}

// Status returns a snapshot of scheduler state and counters.
func (c *client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Running:        c.running,
		Interval:       c.options.interval,
		TotalProcessed: c.totalProcessed,
		TotalUpdated:   c.totalUpdated,
		TotalFailed:    c.totalFailed,
	}
	if c.lastRun != nil {
		last := *c.lastRun
		st.LastRun = &last
	}
	if c.nextRun != nil {
		next := *c.nextRun
		st.NextRun = &next
	}
	return st
}

// Preview returns the next records the selector would pick, without
// calling the enrichment API.
func (c *client) Preview(ctx context.Context, limit int) ([]conferences.Candidate, error) {
	records, err := c.store.Load(ctx, c.options.targetYear)
	if err != nil {
		return nil, err
	}
	return conferences.SelectIncomplete(records, limit), nil
}

// Export returns a snapshot of the target-year dataset.
func (c *client) Export(ctx context.Context) (*Snapshot, error) {
	records, err := c.store.Load(ctx, c.options.targetYear)
	if err != nil {
		return nil, err
	}

	complete := 0
	for _, rec := range records {
		if rec.Complete() {
			complete++
		}
	}

	return &Snapshot{
		ExportedAt:  utc.Now(),
		Year:        c.options.targetYear,
		Total:       len(records),
		Complete:    complete,
		Conferences: records,
	}, nil
}
