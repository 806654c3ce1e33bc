package confsync

import (
	"time"

	"github.com/confsync/confsync/pkg/enrich"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/stores"
)

// Option is a function that configures a Confsync instance.
type Option func(*client) error

// options holds the tunable behavior of the refresh cycle.
type options struct {
	targetYear  int
	interval    time.Duration
	batchSize   int
	retries     int
	callDelay   time.Duration
	callTimeout time.Duration
}

// Defaults match the original deployment: refresh twice a day, small
// batches, a couple of retries, and a polite gap between API calls.
func defaultOptions() *options {
	return &options{
		targetYear:  2026,
		interval:    12 * time.Hour,
		batchSize:   10,
		retries:     3,
		callDelay:   2 * time.Second,
		callTimeout: 60 * time.Second,
	}
}

// WithStore sets the record store backend.
func WithStore(s stores.Store) Option {
	return func(c *client) error {
		c.store = s
		return nil
	}
}

// WithEnricher sets the enrichment client.
func WithEnricher(e enrich.Client) Option {
	return func(c *client) error {
		c.enricher = e
		return nil
	}
}

// WithTargetYear sets the year partition the refresh cycle works on.
func WithTargetYear(year int) Option {
	return func(c *client) error {
		if year < 1900 || year > 2200 {
			return &errors.ValidationError{Field: "targetYear", Value: year, Message: "implausible year"}
		}
		c.options.targetYear = year
		return nil
	}
}

// WithInterval sets how often the scheduler runs a cycle.
func WithInterval(interval time.Duration) Option {
	return func(c *client) error {
		if interval <= 0 {
			return &errors.ValidationError{Field: "interval", Value: interval, Message: "interval must be positive"}
		}
		c.options.interval = interval
		return nil
	}
}

// WithBatchSize caps how many records are enriched per cycle. Zero or
// negative means no cap.
func WithBatchSize(n int) Option {
	return func(c *client) error {
		c.options.batchSize = n
		return nil
	}
}

// WithRetries sets the per-record enrichment attempt budget.
func WithRetries(n int) Option {
	return func(c *client) error {
		if n < 1 {
			return &errors.ValidationError{Field: "retries", Value: n, Message: "at least one attempt is required"}
		}
		c.options.retries = n
		return nil
	}
}

// WithCallDelay sets the minimum gap between successive API calls.
func WithCallDelay(d time.Duration) Option {
	return func(c *client) error {
		if d < 0 {
			return &errors.ValidationError{Field: "callDelay", Value: d, Message: "delay cannot be negative"}
		}
		c.options.callDelay = d
		return nil
	}
}

// WithCallTimeout bounds each enrichment API call.
func WithCallTimeout(d time.Duration) Option {
	return func(c *client) error {
		if d <= 0 {
			return &errors.ValidationError{Field: "callTimeout", Value: d, Message: "timeout must be positive"}
		}
		c.options.callTimeout = d
		return nil
	}
}
