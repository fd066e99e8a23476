package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service implements the daily question quota over a Store: 20 questions a
// day per user, counter restarting at the UTC day boundary. The store is
// the single source of truth; nothing here keeps a local counter.
type Service struct {
	store Store
	limit int
}

func NewService(store Store, limit int) *Service {
	return &Service{store: store, limit: limit}
}

// Limit returns the configured daily cap.
func (s *Service) Limit() int { return s.limit }

// Get reports the user's usage for today. A user with no record gets the
// full allowance without a row being created; a record from an earlier day
// is reset (persisted once) before reporting.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Status, error) {
	today := Today()

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting quota: %w", err)
	}
	if rec == nil {
		return &Status{DailyQuestionsUsed: 0, Remaining: s.limit}, nil
	}

	if rec.Date != today {
		if _, err := s.store.ResetIfStale(ctx, userID, today); err != nil {
			return nil, fmt.Errorf("rolling quota over: %w", err)
		}
		return &Status{DailyQuestionsUsed: 0, Remaining: s.limit}, nil
	}

	return &Status{
		DailyQuestionsUsed: rec.QuestionsUsed,
		Remaining:          s.remaining(rec.QuestionsUsed),
	}, nil
}

// Increment consumes one unit of today's allowance and reports the new
// usage. The store-side increment is atomic, so overlapping calls for the
// same user each consume exactly one unit.
func (s *Service) Increment(ctx context.Context, userID uuid.UUID) (*Status, error) {
	count, err := s.store.Increment(ctx, userID, Today())
	if err != nil {
		return nil, fmt.Errorf("incrementing quota: %w", err)
	}
	return &Status{
		DailyQuestionsUsed: count,
		Remaining:          s.remaining(count),
	}, nil
}

func (s *Service) remaining(used int) int {
	if used >= s.limit {
		return 0
	}
	return s.limit - used
}
