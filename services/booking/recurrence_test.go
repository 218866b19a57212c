package booking

import (
	"sort"
	"testing"
	"time"

	"courtbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDates_Single(t *testing.T) {
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind: models.RecurrenceSingle,
		Date: "2024-06-03",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03"}, dates)
}

func TestExpandDates_Consecutive(t *testing.T) {
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind:      models.RecurrenceConsecutive,
		StartDate: "2024-06-01",
		EndDate:   "2024-06-03",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-03"}, dates)
}

func TestExpandDates_ConsecutiveAcrossMonthBoundary(t *testing.T) {
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind:      models.RecurrenceConsecutive,
		StartDate: "2024-06-29",
		EndDate:   "2024-07-02",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-29", "2024-06-30", "2024-07-01", "2024-07-02"}, dates)
}

func TestExpandDates_ConsecutiveInvertedRange(t *testing.T) {
	_, err := ExpandDates(models.RecurrenceSpec{
		Kind:      models.RecurrenceConsecutive,
		StartDate: "2024-06-03",
		EndDate:   "2024-06-01",
	})

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpandDates_WeeklyMondayWednesdayTwoWeeks(t *testing.T) {
	// 2024-06-03 is a Monday.
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind:          models.RecurrenceWeekly,
		StartDate:     "2024-06-03",
		Weekdays:      []time.Weekday{time.Monday, time.Wednesday},
		NumberOfWeeks: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03", "2024-06-05", "2024-06-10", "2024-06-12"}, dates)
	assert.True(t, sort.StringsAreSorted(dates))
}

func TestExpandDates_WeeklyMidweekAnchor(t *testing.T) {
	// Anchor on a Wednesday with Monday in the set: the Monday of each
	// pattern week falls after the anchor offset, not before it.
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind:          models.RecurrenceWeekly,
		StartDate:     "2024-06-05",
		Weekdays:      []time.Weekday{time.Monday, time.Wednesday},
		NumberOfWeeks: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-05", "2024-06-10"}, dates)
}

func TestExpandDates_WeeklyInvalidInput(t *testing.T) {
	_, err := ExpandDates(models.RecurrenceSpec{
		Kind:          models.RecurrenceWeekly,
		StartDate:     "2024-06-03",
		NumberOfWeeks: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ExpandDates(models.RecurrenceSpec{
		Kind:          models.RecurrenceWeekly,
		StartDate:     "2024-06-03",
		Weekdays:      []time.Weekday{time.Monday},
		NumberOfWeeks: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpandDates_NoDuplicates(t *testing.T) {
	dates, err := ExpandDates(models.RecurrenceSpec{
		Kind:          models.RecurrenceWeekly,
		StartDate:     "2024-06-03",
		Weekdays:      []time.Weekday{time.Monday, time.Tuesday, time.Friday},
		NumberOfWeeks: 4,
	})

	require.NoError(t, err)
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		assert.False(t, seen[d], "duplicate date %s", d)
		seen[d] = true
	}
	assert.Len(t, dates, 12)
}

func TestExpandDates_UnknownKind(t *testing.T) {
	_, err := ExpandDates(models.RecurrenceSpec{Kind: "monthly"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
