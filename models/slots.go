package models

// TimeSlot is a fixed-duration bookable unit derived from operating
// hours. Start is minutes from midnight, Duration is in minutes.
// Slots are derived on demand and never persisted.
type TimeSlot struct {
	Start    int `json:"start"`
	Duration int `json:"duration"`
}

// End returns the slot's exclusive end in minutes from midnight.
func (s TimeSlot) End() int {
	return s.Start + s.Duration
}

// SlotAvailability reports whether the slot starting at Start is still
// free on a given day.
type SlotAvailability struct {
	Start     int  `json:"start"`
	Available bool `json:"available"`
}

// AvailabilityDay is the booking service's view of one (date, court)
// pair. Fetched read-only; Date uses the "2006-01-02" format.
type AvailabilityDay struct {
	Date    string             `json:"date"`
	CourtID string             `json:"courtId"`
	Slots   []SlotAvailability `json:"slots"`
}

// FreeAt reports whether a slot starting at the given minute is free.
// Starts the day has no entry for are treated as unavailable.
func (d AvailabilityDay) FreeAt(start int) bool {
	for _, s := range d.Slots {
		if s.Start == start {
			return s.Available
		}
	}
	return false
}

// SelectionRange is the user's current contiguous pick on a single day:
// [Start, End) in minutes from midnight. A nil *SelectionRange means no
// selection. Mutated only by the range selector and cleared whenever the
// viewed date or court changes.
type SelectionRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the clicked minute t falls inside the range.
func (r SelectionRange) Contains(t int) bool {
	return t >= r.Start && t < r.End
}

// PricedSlot pairs a derived slot with its advisory price for display.
type PricedSlot struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
}
