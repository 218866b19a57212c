package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"courtbook/clients/courtapi"
	"courtbook/models"

	"go.uber.org/zap"
)

// BatchRequest carries one multi-date submission: a recurrence, one
// time range from the selector, and one court. Every expanded date gets
// an identical intent.
type BatchRequest struct {
	FieldID    string                `json:"fieldId"`
	CourtID    string                `json:"courtId"`
	Recurrence models.RecurrenceSpec `json:"recurrence"`
	Start      int                   `json:"start"`
	End        int                   `json:"end"`
	Amenities  []string              `json:"amenities,omitempty"`
	Note       string                `json:"note,omitempty"`
}

// BatchEngine submits multi-date bookings and drives the conflict
// resolution cycle. Partial success is expected and surfaced, never
// rolled back.
type BatchEngine interface {
	SubmitBatch(ctx context.Context, req BatchRequest) (*models.BatchOutcome, error)
	ResolveConflicts(ctx context.Context, prior *models.BatchOutcome, req BatchRequest, res models.ResolutionMap) (*models.BatchOutcome, error)
}

// DefaultBatchEngine implements BatchEngine against the remote booking
// service.
type DefaultBatchEngine struct {
	Client      courtapi.Client
	Logger      *zap.Logger
	Concurrency int

	// Now is the clock for the past-date rule, overridable in tests.
	Now func() time.Time
}

// NewBatchEngine builds an engine with the given fan-out bound.
func NewBatchEngine(client courtapi.Client, logger *zap.Logger, concurrency int) *DefaultBatchEngine {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &DefaultBatchEngine{Client: client, Logger: logger, Concurrency: concurrency, Now: time.Now}
}

func (e *DefaultBatchEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func validateBatchRequest(req BatchRequest) error {
	if req.FieldID == "" || req.CourtID == "" {
		return fmt.Errorf("%w: field and court are required", ErrInvalidInput)
	}
	if req.Start < 0 || req.Start >= req.End {
		return fmt.Errorf("%w: time range [%d, %d) is empty", ErrInvalidInput, req.Start, req.End)
	}
	return nil
}

// SubmitBatch expands the recurrence, builds one intent per date and
// submits them as a concurrent wave. Each date succeeds or fails on its
// own; conflicts are collected for the resolution cycle, hard failures
// are reported as-is.
func (e *DefaultBatchEngine) SubmitBatch(ctx context.Context, req BatchRequest) (*models.BatchOutcome, error) {
	if err := validateBatchRequest(req); err != nil {
		return nil, err
	}

	dates, err := ExpandDates(req.Recurrence)
	if err != nil {
		return nil, err
	}

	now := e.now()
	intents := make([]models.BookingIntent, 0, len(dates))
	for _, date := range dates {
		if IsPastDate(date, now) {
			return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date)
		}
		intents = append(intents, e.intentFor(req, date, req.CourtID))
	}

	e.Logger.Info("submitting booking batch",
		zap.String("courtId", req.CourtID),
		zap.Int("dates", len(intents)))

	outcome := e.submitWave(ctx, intents, &models.BatchOutcome{})
	return outcome, nil
}

// ResolveConflicts applies the user's per-date resolutions to the prior
// outcome and resubmits exactly the switched intents. Skipped dates are
// dropped, unresolved conflicts carry forward, and dates that already
// succeeded are never resubmitted.
func (e *DefaultBatchEngine) ResolveConflicts(ctx context.Context, prior *models.BatchOutcome, req BatchRequest, res models.ResolutionMap) (*models.BatchOutcome, error) {
	if prior == nil {
		return nil, fmt.Errorf("%w: no prior outcome to resolve", ErrInvalidInput)
	}

	plan, err := planResubmission(prior, req, res, e.Logger)
	if err != nil {
		return nil, err
	}

	now := e.now()
	for _, intent := range plan.retries {
		if IsPastDate(intent.Date, now) {
			return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, intent.Date)
		}
	}

	e.Logger.Info("resubmitting after conflict resolution",
		zap.Int("retries", len(plan.retries)),
		zap.Int("skipped", len(plan.skipped)),
		zap.Int("carried", len(plan.carried)))

	base := &models.BatchOutcome{
		Succeeded: prior.Succeeded,
		Conflicts: plan.carried,
		Failed:    prior.Failed,
		Skipped:   append(prior.Skipped, plan.skipped...),
	}
	outcome := e.submitWave(ctx, plan.retries, base)
	return outcome, nil
}

func (e *DefaultBatchEngine) intentFor(req BatchRequest, date, courtID string) models.BookingIntent {
	return models.BookingIntent{
		FieldID:   req.FieldID,
		CourtID:   courtID,
		Date:      date,
		Start:     req.Start,
		End:       req.End,
		Amenities: req.Amenities,
		Note:      req.Note,
	}
}

type waveSlot struct {
	intent models.BookingIntent
	result *models.BookingResult
	err    error
}

// submitWave fans the intents out with a bounded number in flight and
// folds the per-date outcomes into base. Each goroutine writes only its
// own slot. Cancellation stops new sends but lets already-sent requests
// run to completion on a detached context, so no booking is retracted
// and no goroutine is leaked.
func (e *DefaultBatchEngine) submitWave(ctx context.Context, intents []models.BookingIntent, base *models.BatchOutcome) *models.BatchOutcome {
	slots := make([]waveSlot, len(intents))
	sem := make(chan struct{}, e.Concurrency)
	var wg sync.WaitGroup

	for i, intent := range intents {
		slots[i].intent = intent

		if err := ctx.Err(); err != nil {
			slots[i].err = fmt.Errorf("batch abandoned before submission: %w", err)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, intent models.BookingIntent) {
			defer wg.Done()
			defer func() { <-sem }()

			// Already-sent requests are not retracted on abandonment.
			reqCtx := context.WithoutCancel(ctx)
			result, err := e.Client.CreateBooking(reqCtx, intent)
			slots[i].result = result
			slots[i].err = err
		}(i, intent)
	}
	wg.Wait()

	return e.aggregate(slots, base)
}

// aggregate classifies each slot's outcome: success, recoverable slot
// conflict, or hard failure. An unanticipated conflict from another
// session takes the same conflict pathway as any other.
func (e *DefaultBatchEngine) aggregate(slots []waveSlot, base *models.BatchOutcome) *models.BatchOutcome {
	outcome := &models.BatchOutcome{
		Succeeded: base.Succeeded,
		Conflicts: base.Conflicts,
		Failed:    base.Failed,
		Skipped:   base.Skipped,
	}

	for _, s := range slots {
		switch {
		case s.err == nil:
			outcome.Succeeded = append(outcome.Succeeded, *s.result)
		case courtapi.IsConflict(s.err):
			e.Logger.Info("slot conflict",
				zap.String("date", s.intent.Date),
				zap.String("courtId", s.intent.CourtID))
			outcome.Conflicts = append(outcome.Conflicts, models.ConflictItem{
				Date:    s.intent.Date,
				CourtID: s.intent.CourtID,
				Reason:  s.err.Error(),
			})
		default:
			e.Logger.Warn("booking failed",
				zap.String("date", s.intent.Date),
				zap.String("courtId", s.intent.CourtID),
				zap.Error(s.err))
			outcome.Failed = append(outcome.Failed, models.BookingFailure{
				Date:    s.intent.Date,
				CourtID: s.intent.CourtID,
				Reason:  s.err.Error(),
			})
		}
	}

	sort.Slice(outcome.Succeeded, func(i, j int) bool {
		return outcome.Succeeded[i].Date < outcome.Succeeded[j].Date
	})
	sort.Slice(outcome.Conflicts, func(i, j int) bool {
		return outcome.Conflicts[i].Date < outcome.Conflicts[j].Date
	})

	// Total price is the sum of server-confirmed amounts, never a
	// client-side re-derivation.
	outcome.TotalPrice = 0
	for _, r := range outcome.Succeeded {
		outcome.TotalPrice += r.TotalPrice
	}
	outcome.Closed = len(outcome.Conflicts) == 0
	return outcome
}
