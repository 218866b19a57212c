package booking

import (
	"fmt"
	"time"

	"courtbook/models"
)

// Multiplier returns the rate multiplier for a slot starting at the
// given minute on the given weekday: the first price range whose day
// matches and whose [Start, End) contains the slot start wins, 1.0
// otherwise.
func Multiplier(start int, day time.Weekday, ranges []models.PriceRange) float64 {
	for _, r := range ranges {
		if r.DayOfWeek == day && start >= r.Start && start < r.End {
			return r.Multiplier
		}
	}
	return 1.0
}

// SlotPrice prices one slot: base hourly rate scaled to the slot
// duration, times the multiplier at the slot start.
func SlotPrice(slot models.TimeSlot, day time.Weekday, baseRate float64, ranges []models.PriceRange) float64 {
	return baseRate * (float64(slot.Duration) / 60.0) * Multiplier(slot.Start, day, ranges)
}

// QuoteSelection prices a contiguous selection by summing every
// slotDuration-sized sub-interval. Multipliers can change mid-range, so
// an end-to-end multiply would mis-charge across a boundary.
func QuoteSelection(sel models.SelectionRange, day time.Weekday, baseRate float64, slotDuration int, ranges []models.PriceRange) (float64, error) {
	if slotDuration <= 0 {
		return 0, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidInput, slotDuration)
	}
	if sel.Start >= sel.End {
		return 0, fmt.Errorf("%w: selection [%d, %d) is empty", ErrInvalidInput, sel.Start, sel.End)
	}
	if (sel.End-sel.Start)%slotDuration != 0 {
		return 0, fmt.Errorf("%w: selection [%d, %d) is not aligned to %d-minute slots", ErrInvalidInput, sel.Start, sel.End, slotDuration)
	}

	total := 0.0
	for start := sel.Start; start < sel.End; start += slotDuration {
		total += SlotPrice(models.TimeSlot{Start: start, Duration: slotDuration}, day, baseRate, ranges)
	}
	return total, nil
}
