package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over the profiles table. All mutations are
// single statements so concurrent requests for the same user serialize at
// the row instead of racing across round trips.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	var rec Record
	rec.UserID = userID
	err := s.pool.QueryRow(ctx,
		`SELECT daily_questions_used, COALESCE(to_char(last_question_date, 'YYYY-MM-DD'), '')
		 FROM profiles WHERE id = $1`, userID,
	).Scan(&rec.QuestionsUsed, &rec.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching quota record: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) ResetIfStale(ctx context.Context, userID uuid.UUID, today string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles
		 SET daily_questions_used = 0,
		     last_question_date = $2::date,
		     updated_at = NOW()
		 WHERE id = $1 AND (last_question_date IS NULL OR last_question_date <> $2::date)`, userID, today)
	if err != nil {
		return false, fmt.Errorf("resetting stale quota: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Increment(ctx context.Context, userID uuid.UUID, today string) (int, error) {
	// Day rollover and increment happen in one statement: restarting at 1
	// on a date change consumes the increment itself, never a reset plus an
	// add as two observable steps.
	var count int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, email, full_name, daily_questions_used, last_question_date)
		 VALUES ($1, '', 'User', 1, $2::date)
		 ON CONFLICT (id) DO UPDATE
		 SET daily_questions_used = CASE
		         WHEN profiles.last_question_date = EXCLUDED.last_question_date
		         THEN profiles.daily_questions_used + 1
		         ELSE 1
		     END,
		     last_question_date = EXCLUDED.last_question_date,
		     updated_at = NOW()
		 RETURNING daily_questions_used`, userID, today,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("incrementing quota: %w", err)
	}
	return count, nil
}
