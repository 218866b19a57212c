package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtbook/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DraftService persists in-progress booking attempts so a reload can
// resume them. The cache is advisory: availability and prices are
// always re-fetched, never read back from a draft.
type DraftService interface {
	CreateDraft(ctx context.Context, draft models.BookingDraft) (*models.BookingDraft, error)
	SaveDraft(ctx context.Context, draft models.BookingDraft) error
	GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error)
	DeleteDraft(ctx context.Context, draftID string) error
}

// RedisDraftService stores drafts as JSON values with a TTL.
type RedisDraftService struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisDraftService builds a draft store on the given redis client.
func NewRedisDraftService(client *redis.Client, ttl time.Duration) *RedisDraftService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisDraftService{Client: client, TTL: ttl}
}

func draftKey(draftID string) string {
	return "draft:" + draftID
}

// CreateDraft assigns a fresh draft ID and stores the draft.
func (s *RedisDraftService) CreateDraft(ctx context.Context, draft models.BookingDraft) (*models.BookingDraft, error) {
	draft.DraftID = uuid.New().String()
	draft.CreatedAt = time.Now().UTC()
	draft.UpdatedAt = draft.CreatedAt
	if err := s.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft writes the draft back and refreshes its TTL.
func (s *RedisDraftService) SaveDraft(ctx context.Context, draft models.BookingDraft) error {
	if draft.DraftID == "" {
		return fmt.Errorf("%w: draft has no ID", ErrInvalidInput)
	}
	draft.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := s.Client.Set(ctx, draftKey(draft.DraftID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}

// GetDraft loads a draft by ID; expired or unknown drafts return
// ErrDraftNotFound.
func (s *RedisDraftService) GetDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	data, err := s.Client.Get(ctx, draftKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}

	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft discards a draft, e.g. after submission or navigation
// away.
func (s *RedisDraftService) DeleteDraft(ctx context.Context, draftID string) error {
	if err := s.Client.Del(ctx, draftKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking draft: %w", err)
	}
	return nil
}
