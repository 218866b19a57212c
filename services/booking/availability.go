package booking

import (
	"context"
	"errors"
	"sync"

	"courtbook/clients/courtapi"
	"courtbook/models"

	"go.uber.org/zap"
)

// AvailabilityResult is one delivered fetch outcome. NotFound reports
// the "no data for this day" case separately so callers can render an
// advisory open grid without mistaking it for confirmed availability.
type AvailabilityResult struct {
	Day      *models.AvailabilityDay
	NotFound bool
	Err      error
}

// AvailabilityLoader fetches availability per (fieldId, courtId, date).
// Switching to a new key cancels the in-flight fetch for the old key
// and guarantees its outcome is discarded: only the most recent Load's
// result is ever delivered on its channel.
type AvailabilityLoader struct {
	client courtapi.Client
	logger *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewAvailabilityLoader builds a loader on top of the booking service
// client.
func NewAvailabilityLoader(client courtapi.Client, logger *zap.Logger) *AvailabilityLoader {
	return &AvailabilityLoader{client: client, logger: logger}
}

// Load starts an asynchronous fetch for the given key and returns a
// channel carrying exactly one result. A later Load supersedes this one:
// the stale fetch is cancelled and its channel is closed without a
// value.
func (l *AvailabilityLoader) Load(ctx context.Context, fieldID, courtID, date string) <-chan AvailabilityResult {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	out := make(chan AvailabilityResult, 1)

	go func() {
		defer close(out)
		defer cancel()

		day, err := l.client.GetAvailability(fetchCtx, fieldID, courtID, date)

		l.mu.Lock()
		stale := gen != l.gen
		l.mu.Unlock()
		if stale {
			l.logger.Debug("discarding superseded availability fetch",
				zap.String("courtId", courtID), zap.String("date", date))
			return
		}

		switch {
		case err == nil:
			out <- AvailabilityResult{Day: day}
		case errors.Is(err, courtapi.ErrNotFound):
			out <- AvailabilityResult{NotFound: true}
		default:
			out <- AvailabilityResult{Err: err}
		}
	}()

	return out
}
