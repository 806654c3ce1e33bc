package confsync

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
)

// SchedulerOn starts the background refresh loop. Cycles run every
// interval and whenever Trigger queues one. Starting an already-running
// scheduler restarts it.
func (c *client) SchedulerOn() error {
	if c.options.interval <= 0 {
		return &errors.ValidationError{Field: "interval", Value: c.options.interval, Message: "interval must be positive"}
	}

	// Restart cleanly if a loop is already up.
	if err := c.SchedulerOff(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.ticker = time.NewTicker(c.options.interval)
	c.stopCh = make(chan struct{})
	c.loopCancel = cancel
	next := utc.Now().Add(c.options.interval)
	c.nextRun = &next
	c.mu.Unlock()

	go c.loop(ctx)

	logging.Info().
		Dur("interval", c.options.interval).
		Msg("Scheduler started")
	return nil
}

// SchedulerOff stops the background refresh loop. An in-flight API call
// is allowed to finish or time out; the cycle then persists what it
// applied and winds down.
func (c *client) SchedulerOff() error {
	c.mu.Lock()
	ticker := c.ticker
	stopCh := c.stopCh
	cancel := c.loopCancel
	c.ticker = nil
	c.stopCh = nil
	c.loopCancel = nil
	c.nextRun = nil
	c.mu.Unlock()

	if ticker == nil {
		return nil
	}

	ticker.Stop()
	if cancel != nil {
		cancel()
	}
	close(stopCh)

	logging.Info().Msg("Scheduler stopped")
	return nil
}

// Trigger queues a manual cycle on the scheduler loop. The queue holds a
// single pending trigger; anything beyond that is dropped, as is a
// trigger while the scheduler is off.
func (c *client) Trigger() bool {
	c.mu.Lock()
	active := c.stopCh != nil
	c.mu.Unlock()
	if !active {
		return false
	}

	select {
	case c.triggerCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// loop is the scheduler goroutine. It serializes interval ticks and
// manual triggers into RunCycle calls; RunCycle's own running flag covers
// cycles started directly through the API.
func (c *client) loop(ctx context.Context) {
	c.mu.Lock()
	ticker := c.ticker
	stopCh := c.stopCh
	c.mu.Unlock()
	if ticker == nil {
		return
	}

	for {
		select {
		case <-ticker.C:
			c.runScheduled(ctx, "interval")
		case <-c.triggerCh:
			c.runScheduled(ctx, "manual")
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		}
	}
}

// runScheduled runs one cycle from the loop and refreshes the next-run
// estimate. A cycle already in flight is skipped, not queued.
func (c *client) runScheduled(ctx context.Context, reason string) {
	logging.Info().Str("reason", reason).Msg("Scheduler dispatching refresh cycle")

	if _, err := c.RunCycle(ctx); err != nil {
		if errors.IsAlreadyRunning(err) {
			logging.Warn().Str("reason", reason).Msg("Cycle already in flight, skipping")
			return
		}
		logging.Error().Err(err).Str("reason", reason).Msg("Scheduled cycle failed")
	}

	c.mu.Lock()
	if c.stopCh != nil {
		next := utc.Now().Add(c.options.interval)
		c.nextRun = &next
	}
	c.mu.Unlock()
}
