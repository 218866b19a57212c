package models

// BookingIntent is one date's worth of a batch submission: the same
// court and time range replicated across the expanded date set. Derived
// from a RecurrenceSpec plus a SelectionRange; never stored.
type BookingIntent struct {
	FieldID   string   `json:"fieldId"`
	CourtID   string   `json:"courtId"`
	Date      string   `json:"date"`
	Start     int      `json:"start"`
	End       int      `json:"end"`
	Amenities []string `json:"amenities,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// BookingResult is the terminal artifact for one successfully created
// booking. TotalPrice is the server-confirmed amount, not a client
// re-derivation.
type BookingResult struct {
	BookingID  string  `json:"bookingId"`
	Date       string  `json:"date"`
	CourtID    string  `json:"courtId"`
	TotalPrice float64 `json:"totalPrice"`
}

// BookingFailure records a per-date hard failure (validation, network,
// server error). Hard failures never enter conflict resolution.
type BookingFailure struct {
	Date    string `json:"date"`
	CourtID string `json:"courtId"`
	Reason  string `json:"reason"`
}

// ConflictItem is produced when the booking service rejects an intent
// because the slot is no longer free at submission time.
type ConflictItem struct {
	Date    string `json:"date"`
	CourtID string `json:"courtId"`
	Reason  string `json:"reason"`
}

// ResolutionAction is the user's chosen remedy for one conflicted date.
type ResolutionAction string

const (
	// ResolutionSkip drops the conflicted date from the batch.
	ResolutionSkip ResolutionAction = "skip"
	// ResolutionSwitch rebooks the date on a different court with the
	// same time range.
	ResolutionSwitch ResolutionAction = "switch"
)

// Resolution is one date's remedy; CourtID is set only for switch.
type Resolution struct {
	Action  ResolutionAction `json:"action"`
	CourtID string           `json:"courtId,omitempty"`
}

// ResolutionMap maps conflicted dates to their resolutions. Dates absent
// from the map were not conflicted and keep their original intent.
type ResolutionMap map[string]Resolution

// BatchOutcome aggregates one submission wave: successes with a running
// total, conflicts still awaiting resolution, hard failures, and dates
// the user chose to skip. Closed is true once no conflicts remain.
type BatchOutcome struct {
	Succeeded  []BookingResult  `json:"succeeded"`
	Conflicts  []ConflictItem   `json:"conflicts,omitempty"`
	Failed     []BookingFailure `json:"failed,omitempty"`
	Skipped    []string         `json:"skipped,omitempty"`
	TotalPrice float64          `json:"totalPrice"`
	Closed     bool             `json:"closed"`
}

// SucceededDates returns the set of dates that already hold a confirmed
// booking, used to keep resubmission idempotent.
func (o *BatchOutcome) SucceededDates() map[string]bool {
	dates := make(map[string]bool, len(o.Succeeded))
	for _, r := range o.Succeeded {
		dates[r.Date] = true
	}
	return dates
}
