package booking

import (
	"fmt"
	"sort"
	"time"

	"courtbook/models"
)

// DefaultSlotDuration is the slot size used when a facility does not
// configure its own, in minutes.
const DefaultSlotDuration = 60

// hoursFor returns the operating window for the date's weekday, or
// false when the court is closed that day.
func hoursFor(hours []models.OperatingHours, date time.Time) (models.OperatingHours, bool) {
	for _, h := range hours {
		if h.DayOfWeek == date.Weekday() {
			return h, true
		}
	}
	return models.OperatingHours{}, false
}

// SlotGrid derives the ordered bookable slots for a court on one date by
// walking the day's operating window in slotDuration steps. A trailing
// slot whose end would exceed the close time is dropped. A closed day
// yields an empty grid and no error.
func SlotGrid(hours []models.OperatingHours, date time.Time, slotDuration int) ([]models.TimeSlot, error) {
	if slotDuration <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidInput, slotDuration)
	}

	window, open := hoursFor(hours, date)
	if !open {
		return nil, nil
	}
	if window.Start >= window.End {
		return nil, fmt.Errorf("%w: operating window opens at %d and closes at %d", ErrInvalidInput, window.Start, window.End)
	}

	var slots []models.TimeSlot
	for start := window.Start; start+slotDuration <= window.End; start += slotDuration {
		slots = append(slots, models.TimeSlot{Start: start, Duration: slotDuration})
	}
	return slots, nil
}

// minuteOfDay converts a wall-clock instant to minutes from midnight.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsPastDate reports whether the date falls strictly before today.
// Dates are ISO strings, so lexicographic order is calendar order.
// Past dates are rejected at the boundary; the past-time rule below
// only ever sees today or later.
func IsPastDate(date string, now time.Time) bool {
	return date < models.FormatDate(now)
}

// IsPastSlot implements the past-time rule: a slot is in the past iff
// the viewed date is today and its start time-of-day has already
// elapsed. Dates before today never get this far, so only the
// same-day comparison matters here.
func IsPastSlot(start int, date string, now time.Time) bool {
	return date == models.FormatDate(now) && start <= minuteOfDay(now)
}

// FilterPast drops slots that are no longer selectable on the viewed
// date. For any date other than today it returns the grid unchanged.
func FilterPast(slots []models.TimeSlot, date string, now time.Time) []models.TimeSlot {
	if date != models.FormatDate(now) {
		return slots
	}
	kept := slots[:0]
	for _, s := range slots {
		if !IsPastSlot(s.Start, date, now) {
			kept = append(kept, s)
		}
	}
	return kept
}

// BuildPricedDay merges the derived slot grid with the booking service's
// availability and the pricing engine into the display-ready slot list
// for one (date, court). A nil availability day (no data) marks every
// slot available; advisory only, final booking decisions stay with the
// booking service.
func BuildPricedDay(
	hours []models.OperatingHours,
	avail *models.AvailabilityDay,
	date string,
	now time.Time,
	court models.Court,
	ranges []models.PriceRange,
	slotDuration int,
) ([]models.PricedSlot, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}

	grid, err := SlotGrid(hours, day, slotDuration)
	if err != nil {
		return nil, err
	}
	grid = FilterPast(grid, date, now)

	priced := make([]models.PricedSlot, 0, len(grid))
	for _, slot := range grid {
		free := true
		if avail != nil {
			free = avail.FreeAt(slot.Start)
		}
		priced = append(priced, models.PricedSlot{
			Start:     slot.Start,
			End:       slot.End(),
			Available: free,
			Price:     SlotPrice(slot, day.Weekday(), court.HourlyRate, ranges),
		})
	}

	sort.Slice(priced, func(i, j int) bool { return priced[i].Start < priced[j].Start })
	return priced, nil
}
