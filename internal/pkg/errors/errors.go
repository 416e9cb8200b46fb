package errors

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the sentinel for a missing referenced entity. Surfaced
	// to the caller, never retried.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the sentinel for rejected input, e.g. duplicate ids
	// in a career path course list.
	ErrValidation = errors.New("validation failed")
	// ErrConsistency is the sentinel for a write that would break a data
	// invariant. The write is rejected before any mutation.
	ErrConsistency = errors.New("consistency violation")
	// ErrTransient is the sentinel for lock/transaction contention or I/O
	// failure. The whole operation is safe to retry.
	ErrTransient = errors.New("transient store error")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsConsistency(err error) bool { return errors.Is(err, ErrConsistency) }
func IsTransient(err error) bool   { return errors.Is(err, ErrTransient) }

// transientMarkers are substrings of driver errors that indicate lock or
// transaction contention, or a connection-level failure. The sqlite and
// postgres drivers expose these as opaque strings at this layer, so
// matching is by substring.
var transientMarkers = []string{
	"database is locked",       // sqlite SQLITE_BUSY
	"database table is locked", // sqlite SQLITE_LOCKED
	"database is closed",
	"bad connection",
	"connection refused",
	"connection reset",
	"broken pipe",
	"SQLSTATE 40001", // postgres serialization_failure
	"SQLSTATE 40P01", // postgres deadlock_detected
}

// ClassifyStore wraps retryable store failures with ErrTransient so callers
// can tell "retry the whole operation" apart from a genuine fault. Errors
// already carrying a domain sentinel, and non-retryable errors, pass
// through unchanged.
func ClassifyStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConsistency) || errors.Is(err, ErrTransient) {
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	msg := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ErrTransient, err)
		}
	}
	return err
}
