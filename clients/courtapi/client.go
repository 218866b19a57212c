package courtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"courtbook/models"

	"go.uber.org/zap"
)

// Client is the remote booking service boundary: one read operation for
// availability and one write operation for booking creation.
type Client interface {
	GetAvailability(ctx context.Context, fieldID, courtID, date string) (*models.AvailabilityDay, error)
	CreateBooking(ctx context.Context, intent models.BookingIntent) (*models.BookingResult, error)
}

// HTTPClient talks to the booking service over its JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds a client for the booking service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiError is the single error envelope the booking service emits.
// Anything not matching it is treated as a server error.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GetAvailability fetches the slot availability for one (date, court).
func (c *HTTPClient) GetAvailability(ctx context.Context, fieldID, courtID, date string) (*models.AvailabilityDay, error) {
	endpoint := fmt.Sprintf("%s/api/v1/fields/%s/courts/%s/availability?%s",
		c.baseURL, url.PathEscape(fieldID), url.PathEscape(courtID),
		url.Values{"date": {date}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build availability request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read availability response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var day models.AvailabilityDay
		if err := json.Unmarshal(body, &day); err != nil {
			return nil, fmt.Errorf("decode availability response: %w", err)
		}
		if day.Date != date || day.CourtID != courtID {
			// Strict schema: reject anything not matching the request key.
			c.logger.Warn("availability response key mismatch",
				zap.String("wantDate", date), zap.String("gotDate", day.Date),
				zap.String("wantCourt", courtID), zap.String("gotCourt", day.CourtID))
			return nil, &ServerError{Status: resp.StatusCode, Message: "availability response does not match requested date/court"}
		}
		return &day, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, c.decodeError(resp.StatusCode, body, "", "")
	}
}

// CreateBooking submits one booking intent. A 409 maps to ConflictError,
// a 4xx to ValidationError and everything else to ServerError.
func (c *HTTPClient) CreateBooking(ctx context.Context, intent models.BookingIntent) (*models.BookingResult, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("marshal booking intent: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/bookings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read booking response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var result models.BookingResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode booking response: %w", err)
		}
		if result.BookingID == "" {
			return nil, &ServerError{Status: resp.StatusCode, Message: "booking response missing bookingId"}
		}
		if result.Date == "" {
			result.Date = intent.Date
		}
		if result.CourtID == "" {
			result.CourtID = intent.CourtID
		}
		return &result, nil
	default:
		return nil, c.decodeError(resp.StatusCode, body, intent.Date, intent.CourtID)
	}
}

func (c *HTTPClient) decodeError(status int, body []byte, date, courtID string) error {
	var envelope apiError
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusConflict:
		return &ConflictError{Date: date, CourtID: courtID, Reason: msg}
	case status >= 400 && status < 500:
		return &ValidationError{Message: msg}
	default:
		return &ServerError{Status: status, Message: msg}
	}
}
