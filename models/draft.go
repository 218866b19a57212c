package models

import "time"

// BookingDraft is the serializable in-progress booking attempt: the
// viewed court/date, current selection, recurrence choice and wizard
// step. Cached so a page reload can resume an unfinished attempt. The
// cache is advisory only; availability is always re-fetched, never
// trusted from the draft.
type BookingDraft struct {
	DraftID    string          `json:"draftId"`
	UserID     string          `json:"userId"`
	FieldID    string          `json:"fieldId"`
	CourtID    string          `json:"courtId"`
	Date       string          `json:"date"`
	Selection  *SelectionRange `json:"selection,omitempty"`
	Recurrence *RecurrenceSpec `json:"recurrence,omitempty"`
	Amenities  []string        `json:"amenities,omitempty"`
	Note       string          `json:"note,omitempty"`
	Step       string          `json:"step,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
