package quota

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the profile-store client for quota records. Implementations must
// make Increment atomic: concurrent increments for the same user never lose
// updates, which rules out a read-then-write pair over two round trips.
type Store interface {
	// Get returns the user's record, or nil when the user has no row yet.
	// Get never creates a row.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)

	// ResetIfStale persists {count: 0, date: today} only when the stored
	// date differs from today. Of several racing callers at a day boundary
	// at most one performs the write. Returns whether a reset happened.
	ResetIfStale(ctx context.Context, userID uuid.UUID, today string) (bool, error)

	// Increment atomically consumes one unit and returns the new count:
	// a missing row is created at count 1, a stale day restarts at 1 (the
	// rollover consumes the increment itself), a current day adds 1.
	Increment(ctx context.Context, userID uuid.UUID, today string) (int, error)
}

// MemoryStore is an in-process Store for tests and local development. The
// single mutex gives it the same atomicity the SQL store gets from its
// conditional UPSERT.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*Record)}
}

func (m *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) ResetIfStale(ctx context.Context, userID uuid.UUID, today string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok || rec.Date == today {
		return false, nil
	}
	rec.QuestionsUsed = 0
	rec.Date = today
	return true, nil
}

func (m *MemoryStore) Increment(ctx context.Context, userID uuid.UUID, today string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		m.records[userID] = &Record{UserID: userID, QuestionsUsed: 1, Date: today}
		return 1, nil
	}
	if rec.Date != today {
		rec.QuestionsUsed = 1
		rec.Date = today
		return 1, nil
	}
	rec.QuestionsUsed++
	return rec.QuestionsUsed, nil
}

// Seed installs a record directly, bypassing increment semantics.
func (m *MemoryStore) Seed(rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := rec
	m.records[rec.UserID] = &cp
}
