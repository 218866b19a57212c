package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"courtbook/clients/courtapi"
	"courtbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCourtClient scripts per-(date,court) responses and records every
// CreateBooking call.
type fakeCourtClient struct {
	mu      sync.Mutex
	calls   []models.BookingIntent
	respond map[string]error // key date|court; missing key means success
	price   float64
}

func newFakeCourtClient() *fakeCourtClient {
	return &fakeCourtClient{respond: make(map[string]error), price: 50}
}

func (f *fakeCourtClient) failWith(date, courtID string, err error) {
	f.respond[date+"|"+courtID] = err
}

func (f *fakeCourtClient) GetAvailability(ctx context.Context, fieldID, courtID, date string) (*models.AvailabilityDay, error) {
	return &models.AvailabilityDay{Date: date, CourtID: courtID}, nil
}

func (f *fakeCourtClient) CreateBooking(ctx context.Context, intent models.BookingIntent) (*models.BookingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, intent)
	if err, ok := f.respond[intent.Date+"|"+intent.CourtID]; ok {
		return nil, err
	}
	return &models.BookingResult{
		BookingID:  intent.Date + "-" + intent.CourtID,
		Date:       intent.Date,
		CourtID:    intent.CourtID,
		TotalPrice: f.price,
	}, nil
}

func (f *fakeCourtClient) callsFor(date string) []models.BookingIntent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BookingIntent
	for _, c := range f.calls {
		if c.Date == date {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCourtClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// newTestEngine pins the engine clock before the fixture dates so the
// past-date rule only fires when a test wants it to.
func newTestEngine(client courtapi.Client, concurrency int) *DefaultBatchEngine {
	engine := NewBatchEngine(client, zap.NewNop(), concurrency)
	engine.Now = func() time.Time {
		return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	}
	return engine
}

func threeDayRequest() BatchRequest {
	return BatchRequest{
		FieldID: "F1",
		CourtID: "C1",
		Recurrence: models.RecurrenceSpec{
			Kind:      models.RecurrenceConsecutive,
			StartDate: "2024-06-01",
			EndDate:   "2024-06-03",
		},
		Start: 10 * 60,
		End:   12 * 60,
	}
}

func TestSubmitBatch_AllSucceed(t *testing.T) {
	client := newFakeCourtClient()
	engine := newTestEngine(client, 4)

	outcome, err := engine.SubmitBatch(context.Background(), threeDayRequest())

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 3)
	assert.Empty(t, outcome.Conflicts)
	assert.Empty(t, outcome.Failed)
	assert.Equal(t, 150.0, outcome.TotalPrice)
	assert.True(t, outcome.Closed)
}

func TestSubmitBatch_ConflictThenSwitchResolves(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-02", "C1", &courtapi.ConflictError{
		Date: "2024-06-02", CourtID: "C1", Reason: "slot taken",
	})
	engine := newTestEngine(client, 4)
	req := threeDayRequest()

	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 2)
	require.Len(t, outcome.Conflicts, 1)
	assert.Equal(t, "2024-06-02", outcome.Conflicts[0].Date)
	assert.False(t, outcome.Closed)

	before := client.callCount()
	final, err := engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-02": {Action: models.ResolutionSwitch, CourtID: "C2"},
	})
	require.NoError(t, err)

	// Exactly one new request, against the switched court.
	assert.Equal(t, before+1, client.callCount())
	retries := client.callsFor("2024-06-02")
	require.Len(t, retries, 2)
	assert.Equal(t, "C2", retries[1].CourtID)
	assert.Equal(t, req.Start, retries[1].Start)
	assert.Equal(t, req.End, retries[1].End)

	assert.Len(t, final.Succeeded, 3)
	assert.Empty(t, final.Conflicts)
	assert.Equal(t, 150.0, final.TotalPrice)
	assert.True(t, final.Closed)
}

func TestSubmitBatch_HardFailureDoesNotEnterResolution(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-02", "C1", &courtapi.ServerError{Status: 500, Message: "boom"})
	engine := newTestEngine(client, 4)

	req := threeDayRequest()
	req.Recurrence.EndDate = "2024-06-02" // two dates

	outcome, err := engine.SubmitBatch(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 1)
	assert.Empty(t, outcome.Conflicts)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, "2024-06-02", outcome.Failed[0].Date)
	assert.True(t, outcome.Closed)
}

func TestResolveConflicts_SkipOnlyIsIdempotent(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-02", "C1", &courtapi.ConflictError{Date: "2024-06-02", CourtID: "C1", Reason: "slot taken"})
	engine := newTestEngine(client, 4)
	req := threeDayRequest()

	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)
	before := client.callCount()

	final, err := engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-02": {Action: models.ResolutionSkip},
	})
	require.NoError(t, err)

	// No date that already succeeded is ever resubmitted.
	assert.Equal(t, before, client.callCount())
	assert.Len(t, final.Succeeded, 2)
	assert.Equal(t, []string{"2024-06-02"}, final.Skipped)
	assert.Empty(t, final.Conflicts)
	assert.True(t, final.Closed)
}

func TestResolveConflicts_UnresolvedConflictCarriesForward(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-01", "C1", &courtapi.ConflictError{Date: "2024-06-01", CourtID: "C1", Reason: "slot taken"})
	client.failWith("2024-06-02", "C1", &courtapi.ConflictError{Date: "2024-06-02", CourtID: "C1", Reason: "slot taken"})
	engine := newTestEngine(client, 4)
	req := threeDayRequest()

	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, outcome.Conflicts, 2)

	final, err := engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-01": {Action: models.ResolutionSkip},
	})
	require.NoError(t, err)

	require.Len(t, final.Conflicts, 1)
	assert.Equal(t, "2024-06-02", final.Conflicts[0].Date)
	assert.False(t, final.Closed)
}

func TestResolveConflicts_SwitchCanConflictAgain(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-02", "C1", &courtapi.ConflictError{Date: "2024-06-02", CourtID: "C1", Reason: "slot taken"})
	client.failWith("2024-06-02", "C2", &courtapi.ConflictError{Date: "2024-06-02", CourtID: "C2", Reason: "slot taken"})
	engine := newTestEngine(client, 4)
	req := threeDayRequest()

	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)

	final, err := engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-02": {Action: models.ResolutionSwitch, CourtID: "C2"},
	})
	require.NoError(t, err)

	// The new conflict re-enters the same pathway.
	require.Len(t, final.Conflicts, 1)
	assert.Equal(t, "C2", final.Conflicts[0].CourtID)
	assert.False(t, final.Closed)
}

func TestResolveConflicts_InvalidResolution(t *testing.T) {
	client := newFakeCourtClient()
	client.failWith("2024-06-02", "C1", &courtapi.ConflictError{Date: "2024-06-02", CourtID: "C1", Reason: "slot taken"})
	engine := newTestEngine(client, 4)
	req := threeDayRequest()

	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)

	_, err = engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-02": {Action: models.ResolutionSwitch},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.ResolveConflicts(context.Background(), outcome, req, models.ResolutionMap{
		"2024-06-02": {Action: "retry"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitBatch_InvalidRequest(t *testing.T) {
	engine := newTestEngine(newFakeCourtClient(), 4)

	req := threeDayRequest()
	req.Start, req.End = 12*60, 10*60
	_, err := engine.SubmitBatch(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = threeDayRequest()
	req.CourtID = ""
	_, err = engine.SubmitBatch(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitBatch_RejectsPastDates(t *testing.T) {
	client := newFakeCourtClient()
	engine := newTestEngine(client, 4)

	req := BatchRequest{
		FieldID: "F1",
		CourtID: "C1",
		Recurrence: models.RecurrenceSpec{
			Kind: models.RecurrenceSingle,
			Date: "2024-04-30",
		},
		Start: 10 * 60,
		End:   12 * 60,
	}

	_, err := engine.SubmitBatch(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
	// Nothing reaches the booking service.
	assert.Equal(t, 0, client.callCount())

	// A range straddling today is rejected as a whole; today itself is
	// allowed.
	req.Recurrence = models.RecurrenceSpec{
		Kind:      models.RecurrenceConsecutive,
		StartDate: "2024-04-30",
		EndDate:   "2024-05-02",
	}
	_, err = engine.SubmitBatch(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, client.callCount())

	req.Recurrence = models.RecurrenceSpec{
		Kind: models.RecurrenceSingle,
		Date: "2024-05-01",
	}
	outcome, err := engine.SubmitBatch(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 1)
}

func TestSubmitBatch_AbandonedContextStopsNewSends(t *testing.T) {
	client := newFakeCourtClient()
	engine := newTestEngine(client, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := engine.SubmitBatch(ctx, threeDayRequest())

	require.NoError(t, err)
	// Nothing was sent; every date surfaces as a hard failure.
	assert.Equal(t, 0, client.callCount())
	assert.Empty(t, outcome.Succeeded)
	assert.Len(t, outcome.Failed, 3)
}

func TestSubmitBatch_BoundedFanOut(t *testing.T) {
	client := newFakeCourtClient()
	engine := newTestEngine(client, 2)

	req := threeDayRequest()
	req.Recurrence = models.RecurrenceSpec{
		Kind:      models.RecurrenceConsecutive,
		StartDate: "2024-06-01",
		EndDate:   "2024-06-10",
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		outcome, err := engine.SubmitBatch(context.Background(), req)
		assert.NoError(t, err)
		assert.Len(t, outcome.Succeeded, 10)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch submission did not complete")
	}
}
