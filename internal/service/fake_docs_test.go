package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
)

// fakeDocs is an in-memory DocumentRepository used across the service tests.
type fakeDocs struct {
	mu      sync.Mutex
	clock   time.Time
	records map[string][]*domain.Record
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		records: make(map[string][]*domain.Record),
	}
}

var _ repository.DocumentRepository = (*fakeDocs)(nil)

func (f *fakeDocs) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeDocs) Insert(_ context.Context, collection string, body map[string]any) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.tick()
	record := &domain.Record{
		ID:         uuid.NewString(),
		Collection: collection,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.records[collection] = append(f.records[collection], record)
	return record, nil
}

func (f *fakeDocs) Update(_ context.Context, collection, id string, body map[string]any) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range f.records[collection] {
		if record.ID == id {
			record.Body = body
			record.UpdatedAt = f.tick()
			return record, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDocs) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteLocked(collection, id)
}

func (f *fakeDocs) deleteLocked(collection, id string) error {
	records := f.records[collection]
	for i, record := range records {
		if record.ID == id {
			f.records[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDocs) GetByID(_ context.Context, collection, id string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range f.records[collection] {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDocs) List(_ context.Context, collection string) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := f.records[collection]
	out := make([]domain.Record, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, *stored[i])
	}
	return out, nil
}

func (f *fakeDocs) DeleteGuarded(_ context.Context, collection, id string, ref repository.ReferenceCheck) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, record := range f.records[ref.Collection] {
		if val, _ := record.Body[ref.Field].(string); val == ref.Value {
			count++
		}
	}
	if count > 0 {
		return count, nil
	}
	return 0, f.deleteLocked(collection, id)
}

func (f *fakeDocs) size(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}
