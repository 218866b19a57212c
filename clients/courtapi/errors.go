package courtapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the booking service has no availability
// data for the requested (date, court). Callers may treat it as "assume
// open" for advisory UI only, never for final booking decisions.
var ErrNotFound = errors.New("availability not found")

// ConflictError means the requested slot is no longer free. It is the
// only recoverable booking failure: the orchestrator turns it into a
// conflict item for the resolution cycle.
type ConflictError struct {
	Date    string
	CourtID string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflict on %s (court %s): %s", e.Date, e.CourtID, e.Reason)
}

// ValidationError is a per-date hard failure: the booking service
// rejected the request as malformed. Never retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking validation failed: %s", e.Message)
}

// ServerError is a per-date hard failure on the booking service side.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("booking service error (status %d): %s", e.Status, e.Message)
}

// IsConflict reports whether err is a recoverable slot conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
