package courtapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, zap.NewNop())
}

func TestGetAvailability_OK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/fields/F1/courts/C1/availability", r.URL.Path)
		assert.Equal(t, "2024-06-03", r.URL.Query().Get("date"))
		json.NewEncoder(w).Encode(models.AvailabilityDay{
			Date:    "2024-06-03",
			CourtID: "C1",
			Slots:   []models.SlotAvailability{{Start: 600, Available: true}},
		})
	})

	day, err := client.GetAvailability(context.Background(), "F1", "C1", "2024-06-03")

	require.NoError(t, err)
	require.Len(t, day.Slots, 1)
	assert.True(t, day.FreeAt(600))
	assert.False(t, day.FreeAt(660))
}

func TestGetAvailability_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetAvailability(context.Background(), "F1", "C1", "2024-06-03")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAvailability_RejectsMismatchedKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AvailabilityDay{Date: "2024-06-04", CourtID: "C1"})
	})

	_, err := client.GetAvailability(context.Background(), "F1", "C1", "2024-06-03")

	var se *ServerError
	assert.ErrorAs(t, err, &se)
}

func bookingIntent() models.BookingIntent {
	return models.BookingIntent{
		FieldID: "F1",
		CourtID: "C1",
		Date:    "2024-06-03",
		Start:   600,
		End:     720,
	}
}

func TestCreateBooking_Created(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/bookings", r.URL.Path)

		var intent models.BookingIntent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&intent))
		assert.Equal(t, "2024-06-03", intent.Date)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.BookingResult{BookingID: "b-1", TotalPrice: 50})
	})

	result, err := client.CreateBooking(context.Background(), bookingIntent())

	require.NoError(t, err)
	assert.Equal(t, "b-1", result.BookingID)
	// Missing echo fields are filled from the intent.
	assert.Equal(t, "2024-06-03", result.Date)
	assert.Equal(t, "C1", result.CourtID)
	assert.Equal(t, 50.0, result.TotalPrice)
}

func TestCreateBooking_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"slot_taken","message":"slot already booked"}}`))
	})

	_, err := client.CreateBooking(context.Background(), bookingIntent())

	require.True(t, IsConflict(err))
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "2024-06-03", ce.Date)
	assert.Equal(t, "C1", ce.CourtID)
	assert.Equal(t, "slot already booked", ce.Reason)
}

func TestCreateBooking_ValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"bad_range","message":"end before start"}}`))
	})

	_, err := client.CreateBooking(context.Background(), bookingIntent())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end before start", ve.Message)
	assert.False(t, IsConflict(err))
}

func TestCreateBooking_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	})

	_, err := client.CreateBooking(context.Background(), bookingIntent())

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestCreateBooking_MissingBookingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	_, err := client.CreateBooking(context.Background(), bookingIntent())

	var se *ServerError
	assert.ErrorAs(t, err, &se)
}

func TestCreateBooking_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateBooking(ctx, bookingIntent())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
