// Package errors provides custom error types for the confsync system.
// These errors enable programmatic error checking and keep the error
// taxonomy (config, store, enrichment, validation) in one place.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the confsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrAlreadyRunning indicates that a refresh cycle is already in progress
	ErrAlreadyRunning = errors.New("cycle already running")

	// ErrNoData indicates that the store holds no records for the partition
	ErrNoData = errors.New("no data")
)

// ConfigError represents a configuration error. Configuration errors are
// fatal at startup.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// StoreError represents a read or write failure in a record store backend.
// A store error aborts the current cycle; the previously persisted state
// remains authoritative.
type StoreError struct {
	Backend   string // "csv", "sheets"
	Operation string // "load", "save", "init"
	Partition int    // year partition, 0 if not partition-specific
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Partition != 0 {
		return fmt.Sprintf("%s store: %s failed for %d: %v", e.Backend, e.Operation, e.Partition, e.Err)
	}
	return fmt.Sprintf("%s store: %s failed: %v", e.Backend, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(backend, operation string, partition int, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Partition: partition,
		Err:       err,
	}
}

// EnrichmentError represents a per-record enrichment failure. It carries
// the conference name and the raw cause; the caller decides retry or skip.
type EnrichmentError struct {
	Conference string
	Attempt    int
	Err        error
}

// Error implements the error interface
func (e *EnrichmentError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("enrichment failed for %q (attempt %d): %v", e.Conference, e.Attempt, e.Err)
	}
	return fmt.Sprintf("enrichment failed for %q: %v", e.Conference, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// NewEnrichmentError creates a new EnrichmentError
func NewEnrichmentError(conference string, err error) *EnrichmentError {
	return &EnrichmentError{Conference: conference, Err: err}
}

// ValidationError represents a malformed field value returned by the
// enrichment API. The field is discarded; the record is otherwise updated.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the enrichment provider API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	return false
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "csv"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsAlreadyRunning checks if an error means a cycle is already in flight
func IsAlreadyRunning(err error) bool {
	return errors.Is(err, ErrAlreadyRunning)
}

// IsStoreError checks if an error is a store error
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsEnrichmentError checks if an error is a per-record enrichment error
func IsEnrichmentError(err error) bool {
	var ee *EnrichmentError
	return errors.As(err, &ee)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapStore wraps an error as a StoreError
func WrapStore(backend, operation string, partition int, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(backend, operation, partition, err)
}
