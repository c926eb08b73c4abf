/*
errors.go - Error types for the payroll engine

PURPOSE:
  All error types in one place. Callers match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Data errors - the entry store or rate lookup failed
  2. Validation errors - malformed caller input (period, entry type, rate)

An empty period is NOT an error: zero entries yield an all-zero Calculation.

SEE ALSO:
  - calculator.go: Wraps store failures in DataUnavailableError
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package payroll

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDataUnavailable is returned when the entry store or rate lookup fails.
	// The underlying cause stays reachable through errors.Unwrap.
	ErrDataUnavailable = errors.New("payroll data unavailable")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidEntryType is returned for an entry type outside in/out/sick/vacation.
	ErrInvalidEntryType = errors.New("invalid entry type")

	// ErrInvalidRate is returned when an hourly rate is zero or negative.
	ErrInvalidRate = errors.New("hourly rate must be positive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DataUnavailableError wraps a store failure.
type DataUnavailableError struct {
	Op  string // e.g. "list entries", "current rate"
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataUnavailable, e.Op, e.Err)
}

// Unwrap exposes the store's own error unchanged.
func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataUnavailable) match.
func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// InvalidPeriodError reports a period whose end precedes its start.
type InvalidPeriodError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period: start %s is after end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *InvalidPeriodError) Unwrap() error { return ErrInvalidPeriod }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidEntryType) ||
		errors.Is(err, ErrInvalidRate)
}

// IsUnavailable returns true if a store collaborator failed.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func unavailable(op string, err error) error {
	return &DataUnavailableError{Op: op, Err: err}
}
