package booking

import (
	"fmt"
	"time"

	"courtbook/models"
)

// ExpandDates turns a recurrence spec into the concrete ascending list
// of dates to book. The list is duplicate-free by construction. This is
// the single expansion used by every caller: quote, batch submission
// and resubmission all walk the same dates.
func ExpandDates(spec models.RecurrenceSpec) ([]string, error) {
	switch spec.Kind {
	case models.RecurrenceSingle:
		if _, err := models.ParseDate(spec.Date); err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, spec.Date)
		}
		return []string{spec.Date}, nil

	case models.RecurrenceConsecutive:
		start, err := models.ParseDate(spec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad start date %q", ErrInvalidInput, spec.StartDate)
		}
		end, err := models.ParseDate(spec.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad end date %q", ErrInvalidInput, spec.EndDate)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: %s ends before it starts (%s)", ErrInvalidRange, spec.EndDate, spec.StartDate)
		}
		var dates []string
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, models.FormatDate(d))
		}
		return dates, nil

	case models.RecurrenceWeekly:
		start, err := models.ParseDate(spec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad start date %q", ErrInvalidInput, spec.StartDate)
		}
		if len(spec.Weekdays) == 0 {
			return nil, fmt.Errorf("%w: weekly recurrence needs at least one weekday", ErrInvalidInput)
		}
		if spec.NumberOfWeeks <= 0 {
			return nil, fmt.Errorf("%w: number of weeks must be positive, got %d", ErrInvalidInput, spec.NumberOfWeeks)
		}

		wanted := make(map[time.Weekday]bool, len(spec.Weekdays))
		for _, wd := range spec.Weekdays {
			wanted[wd] = true
		}

		var dates []string
		for week := 0; week < spec.NumberOfWeeks; week++ {
			for offset := 0; offset < 7; offset++ {
				d := start.AddDate(0, 0, week*7+offset)
				if wanted[d.Weekday()] {
					dates = append(dates, models.FormatDate(d))
				}
			}
		}
		return dates, nil

	default:
		return nil, fmt.Errorf("%w: unknown recurrence kind %q", ErrInvalidInput, spec.Kind)
	}
}
