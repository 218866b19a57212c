package models

import "time"

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// RecurrenceKind discriminates the recurrence union.
type RecurrenceKind string

const (
	// RecurrenceSingle books one explicit date.
	RecurrenceSingle RecurrenceKind = "single"
	// RecurrenceConsecutive books every date in [StartDate, EndDate].
	RecurrenceConsecutive RecurrenceKind = "consecutive"
	// RecurrenceWeekly books the listed weekdays for NumberOfWeeks weeks
	// starting at StartDate.
	RecurrenceWeekly RecurrenceKind = "weekly"
)

// RecurrenceSpec describes how a single time-range booking is replicated
// across calendar dates. Exactly the fields for the given Kind are set.
type RecurrenceSpec struct {
	Kind RecurrenceKind `json:"kind"`

	// Single.
	Date string `json:"date,omitempty"`

	// Consecutive (inclusive on both ends).
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	// Weekly. Reuses StartDate as the pattern anchor.
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	NumberOfWeeks int            `json:"numberOfWeeks,omitempty"`
}

// ParseDate parses a "2006-01-02" date into a UTC midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a time.Time as a "2006-01-02" date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
