package booking

import (
	"time"

	"courtbook/models"
)

// Selector is the range-selection state machine for a single viewed
// (date, court). State is the caller-owned *SelectionRange: nil means
// nothing selected, non-nil is one contiguous anchored block. Every
// click either starts a block, deselects it, or extends it toward the
// clicked slot; a rejected transition leaves the prior state untouched.
type Selector struct {
	Duration int
}

// NewSelector builds a selector for the given slot duration.
func NewSelector(duration int) Selector {
	if duration <= 0 {
		duration = DefaultSlotDuration
	}
	return Selector{Duration: duration}
}

// Click applies one slot-click at minute t against the current
// selection and returns the new selection. day carries the current
// availability for the viewed date; viewDate/now drive the past-time
// rule. On rejection the returned selection equals cur and the error is
// a *RangeConflictError.
func (s Selector) Click(cur *models.SelectionRange, t int, day *models.AvailabilityDay, viewDate string, now time.Time) (*models.SelectionRange, error) {
	if IsPastSlot(t, viewDate, now) {
		return cur, &RangeConflictError{At: t, Reason: "slot is in the past"}
	}

	if cur == nil {
		if !freeAt(day, t) {
			return nil, &RangeConflictError{At: t, Reason: "slot is not available"}
		}
		return &models.SelectionRange{Start: t, End: t + s.Duration}, nil
	}

	// Re-clicking inside the anchored block deselects it.
	if cur.Contains(t) {
		return nil, nil
	}

	proposed := models.SelectionRange{Start: cur.Start, End: cur.End}
	if t < cur.Start {
		proposed.Start = t
	} else {
		proposed.End = t + s.Duration
	}

	// Extension is all-or-nothing: every sub-slot on the path must be
	// free, otherwise the block stays where it was.
	for start := proposed.Start; start < proposed.End; start += s.Duration {
		if !freeAt(day, start) {
			return cur, &RangeConflictError{At: start, Reason: "slot along the extension path is not available"}
		}
	}

	return &proposed, nil
}

// freeAt treats a missing availability day as open. That is the
// advisory "assume available" reading of NotFound; the booking service
// still has the final word at submission time.
func freeAt(day *models.AvailabilityDay, start int) bool {
	if day == nil {
		return true
	}
	return day.FreeAt(start)
}
