package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
)

// ReferenceCheck describes a referential guard evaluated before a delete:
// documents in Collection whose Field equals Value block the removal.
type ReferenceCheck struct {
	Collection string
	Field      string
	Value      string
}

// DocumentRepository is the generic persistence layer shared by every content
// collection. Absence is always signalled with pgx.ErrNoRows.
type DocumentRepository interface {
	Insert(ctx context.Context, collection string, body map[string]any) (*domain.Record, error)
	Update(ctx context.Context, collection, id string, body map[string]any) (*domain.Record, error)
	Delete(ctx context.Context, collection, id string) error
	GetByID(ctx context.Context, collection, id string) (*domain.Record, error)
	List(ctx context.Context, collection string) ([]domain.Record, error)
	DeleteGuarded(ctx context.Context, collection, id string, ref ReferenceCheck) (int64, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation storing each
// document as a JSONB body in the documents table.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Insert(ctx context.Context, collection string, body map[string]any) (*domain.Record, error) {
	const query = `
        INSERT INTO documents (collection, body)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	record := &domain.Record{Collection: collection, Body: body}
	if err := r.pool.QueryRow(ctx, query, collection, body).Scan(
		&record.ID,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *documentRepository) Update(ctx context.Context, collection, id string, body map[string]any) (*domain.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}

	const query = `
        UPDATE documents SET body=$1, updated_at=NOW()
        WHERE collection=$2 AND id=$3
        RETURNING id, created_at, updated_at`

	record := &domain.Record{Collection: collection, Body: body}
	if err := r.pool.QueryRow(ctx, query, body, collection, id).Scan(
		&record.ID,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *documentRepository) Delete(ctx context.Context, collection, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return pgx.ErrNoRows
	}

	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`

	cmd, err := r.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, collection, id string) (*domain.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}

	const query = `
        SELECT id, collection, body, created_at, updated_at
        FROM documents WHERE collection=$1 AND id=$2`

	var record domain.Record
	if err := r.pool.QueryRow(ctx, query, collection, id).Scan(
		&record.ID,
		&record.Collection,
		&record.Body,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *documentRepository) List(ctx context.Context, collection string) ([]domain.Record, error) {
	const query = `
        SELECT id, collection, body, created_at, updated_at
        FROM documents WHERE collection=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var record domain.Record
		if err := rows.Scan(
			&record.ID,
			&record.Collection,
			&record.Body,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteGuarded counts referencing documents and deletes the target only when
// the count is zero, inside one transaction. At read committed a reference
// committed between the count and the delete can still slip through; the
// window is one statement rather than a full round trip to the caller.
func (r *documentRepository) DeleteGuarded(ctx context.Context, collection, id string, ref ReferenceCheck) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, pgx.ErrNoRows
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const countQuery = `
        SELECT COUNT(*) FROM documents
        WHERE collection=$1 AND body->>$2 = $3`

	var count int64
	if err := tx.QueryRow(ctx, countQuery, ref.Collection, ref.Field, ref.Value).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return count, tx.Commit(ctx)
	}

	const deleteQuery = `DELETE FROM documents WHERE collection=$1 AND id=$2`

	cmd, err := tx.Exec(ctx, deleteQuery, collection, id)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() == 0 {
		return 0, pgx.ErrNoRows
	}
	return 0, tx.Commit(ctx)
}
