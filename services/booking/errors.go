package booking

import (
	"errors"
	"fmt"

	"courtbook/clients/courtapi"
)

// ErrInvalidInput marks malformed caller input (bad duration, inverted
// operating window, empty weekday set). Surfaced immediately, never
// retried.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidRange marks a consecutive recurrence whose end date
// precedes its start date.
var ErrInvalidRange = errors.New("invalid date range")

// ErrDraftNotFound is returned when a booking draft has expired or
// never existed.
var ErrDraftNotFound = errors.New("booking draft not found")

// RangeConflictError signals a rejected range-selector transition. The
// selection state is unchanged; the caller surfaces Reason to the user.
type RangeConflictError struct {
	At     int
	Reason string
}

func (e *RangeConflictError) Error() string {
	return fmt.Sprintf("range conflict at minute %d: %s", e.At, e.Reason)
}

// IsRangeConflict reports whether err is a rejected selector transition.
func IsRangeConflict(err error) bool {
	var rc *RangeConflictError
	return errors.As(err, &rc)
}

// IsConflict reports whether a booking failure is a recoverable slot
// conflict (the slot was taken between viewing and submitting).
func IsConflict(err error) bool {
	return courtapi.IsConflict(err)
}

// IsHardFailure reports whether a booking failure is fatal for its date:
// anything that is not a slot conflict. Hard failures are surfaced and
// never enter conflict resolution.
func IsHardFailure(err error) bool {
	return err != nil && !courtapi.IsConflict(err)
}
