package booking

import (
	"fmt"
	"time"

	"courtbook/models"
)

// CourtCatalog resolves court metadata: identity, operating hours and
// price ranges. Facilities rarely change these, so the default
// implementation is a static in-memory catalog seeded at startup.
type CourtCatalog interface {
	CourtByID(courtID string) (*models.Court, error)
	OperatingHoursFor(courtID string) []models.OperatingHours
	PriceRangesFor(courtID string) []models.PriceRange
}

// CatalogEntry bundles everything the catalog knows about one court.
type CatalogEntry struct {
	Court      models.Court
	Hours      []models.OperatingHours
	PriceRange []models.PriceRange
}

// StaticCourtCatalog serves catalog entries from memory.
type StaticCourtCatalog struct {
	entries map[string]CatalogEntry
}

// NewStaticCourtCatalog builds a catalog from the given entries.
func NewStaticCourtCatalog(entries []CatalogEntry) *StaticCourtCatalog {
	m := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		m[e.Court.ID] = e
	}
	return &StaticCourtCatalog{entries: m}
}

// CourtByID looks a court up by ID.
func (c *StaticCourtCatalog) CourtByID(courtID string) (*models.Court, error) {
	e, ok := c.entries[courtID]
	if !ok {
		return nil, fmt.Errorf("court with ID %s not found", courtID)
	}
	court := e.Court
	return &court, nil
}

// OperatingHoursFor returns the weekly open windows for a court, empty
// when the court is unknown.
func (c *StaticCourtCatalog) OperatingHoursFor(courtID string) []models.OperatingHours {
	return c.entries[courtID].Hours
}

// PriceRangesFor returns the multiplier ranges for a court, empty when
// none are configured.
func (c *StaticCourtCatalog) PriceRangesFor(courtID string) []models.PriceRange {
	return c.entries[courtID].PriceRange
}

// weekdaysMonToFri is a convenience for seeding default entries.
var weekdaysMonToFri = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// DefaultCatalogEntries seeds a demo facility: two courts, 7:00-22:00
// weekdays with an evening peak multiplier, 8:00-20:00 weekends.
func DefaultCatalogEntries() []CatalogEntry {
	courts := []models.Court{
		{ID: "C1", FieldID: "F1", Name: "Court 1", HourlyRate: 25, Currency: "USD"},
		{ID: "C2", FieldID: "F1", Name: "Court 2", HourlyRate: 30, Currency: "USD"},
	}

	entries := make([]CatalogEntry, 0, len(courts))
	for _, court := range courts {
		var hours []models.OperatingHours
		var ranges []models.PriceRange
		for _, wd := range weekdaysMonToFri {
			hours = append(hours, models.OperatingHours{DayOfWeek: wd, Start: 7 * 60, End: 22 * 60})
			ranges = append(ranges, models.PriceRange{DayOfWeek: wd, Start: 17 * 60, End: 21 * 60, Multiplier: 1.5})
		}
		for _, wd := range []time.Weekday{time.Saturday, time.Sunday} {
			hours = append(hours, models.OperatingHours{DayOfWeek: wd, Start: 8 * 60, End: 20 * 60})
			ranges = append(ranges, models.PriceRange{DayOfWeek: wd, Start: 8 * 60, End: 20 * 60, Multiplier: 1.25})
		}
		entries = append(entries, CatalogEntry{Court: court, Hours: hours, PriceRange: ranges})
	}
	return entries
}
