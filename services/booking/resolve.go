package booking

import (
	"fmt"

	"courtbook/models"

	"go.uber.org/zap"
)

// resubmissionPlan is the pure outcome of applying a resolution map to
// a prior wave: which intents to retry, which dates were skipped, and
// which conflicts remain unresolved.
type resubmissionPlan struct {
	retries []models.BookingIntent
	skipped []string
	carried []models.ConflictItem
}

// planResubmission derives the retry set from the prior outcome and the
// user's resolutions. Only conflicted dates are eligible; entries for
// non-conflicted dates are ignored (those dates already succeeded or
// hard-failed and are not touched). A switch against a date that
// already succeeded is refused to keep resubmission idempotent.
func planResubmission(prior *models.BatchOutcome, req BatchRequest, res models.ResolutionMap, logger *zap.Logger) (*resubmissionPlan, error) {
	succeeded := prior.SucceededDates()
	conflicted := make(map[string]models.ConflictItem, len(prior.Conflicts))
	for _, c := range prior.Conflicts {
		conflicted[c.Date] = c
	}

	for date := range res {
		if _, ok := conflicted[date]; !ok {
			logger.Warn("resolution for a date that was not conflicted, ignoring",
				zap.String("date", date))
		}
	}

	plan := &resubmissionPlan{}
	for _, c := range prior.Conflicts {
		r, ok := res[c.Date]
		if !ok {
			// Unresolved conflicts stay open for a later cycle.
			plan.carried = append(plan.carried, c)
			continue
		}

		switch r.Action {
		case models.ResolutionSkip:
			plan.skipped = append(plan.skipped, c.Date)
		case models.ResolutionSwitch:
			if r.CourtID == "" {
				return nil, fmt.Errorf("%w: switch resolution for %s needs a court", ErrInvalidInput, c.Date)
			}
			if succeeded[c.Date] {
				return nil, fmt.Errorf("%w: date %s already has a confirmed booking", ErrInvalidInput, c.Date)
			}
			intent := models.BookingIntent{
				FieldID:   req.FieldID,
				CourtID:   r.CourtID,
				Date:      c.Date,
				Start:     req.Start,
				End:       req.End,
				Amenities: req.Amenities,
				Note:      req.Note,
			}
			plan.retries = append(plan.retries, intent)
		default:
			return nil, fmt.Errorf("%w: unknown resolution action %q for %s", ErrInvalidInput, r.Action, c.Date)
		}
	}

	return plan, nil
}
