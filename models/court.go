package models

import "time"

// Court is one bookable unit within a field (facility).
type Court struct {
	ID         string  `json:"id"`
	FieldID    string  `json:"fieldId"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
	Currency   string  `json:"currency"`
}

// OperatingHours is one weekly open window: the court is bookable on
// DayOfWeek from Start to End, both minutes from midnight, End
// exclusive. A weekday with no entry is closed.
type OperatingHours struct {
	DayOfWeek time.Weekday `json:"dayOfWeek"`
	Start     int          `json:"start"`
	End       int          `json:"end"`
}

// PriceRange scales the base hourly rate for slots starting inside
// [Start, End) on DayOfWeek. Ranges are evaluated in order and the
// first match wins.
type PriceRange struct {
	DayOfWeek  time.Weekday `json:"dayOfWeek"`
	Start      int          `json:"start"`
	End        int          `json:"end"`
	Multiplier float64      `json:"multiplier"`
}
