package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/cache"
	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
	"github.com/srkbolt25-collab/srkfence-backend/internal/resource"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

// ResourceService implements the CRUD workflow shared by every content
// collection, driven entirely by the resource definitions.
type ResourceService struct {
	docs   repository.DocumentRepository
	cache  *cache.ListCache
	logger *zap.Logger
}

// NewResourceService builds the service.
func NewResourceService(docs repository.DocumentRepository, listCache *cache.ListCache, logger *zap.Logger) *ResourceService {
	return &ResourceService{docs: docs, cache: listCache, logger: logger}
}

// List returns all records of a collection, newest first.
func (s *ResourceService) List(ctx context.Context, def resource.Definition) ([]domain.Record, error) {
	if records, ok := s.cache.Get(ctx, def.Collection); ok {
		return records, nil
	}

	records, err := s.docs.List(ctx, def.Collection)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.cache.Set(ctx, def.Collection, records)
	return records, nil
}

// Get returns a single record.
func (s *ResourceService) Get(ctx context.Context, def resource.Definition, id string) (*domain.Record, error) {
	record, err := s.docs.GetByID(ctx, def.Collection, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(def.Singular)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// Create validates the body against the collection schema and persists it.
func (s *ResourceService) Create(ctx context.Context, def resource.Definition, body map[string]any) (*domain.Record, error) {
	doc, err := def.Validate(body)
	if err != nil {
		return nil, err
	}

	record, err := s.docs.Insert(ctx, def.Collection, doc)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, def.Collection)
	return record, nil
}

// Update replaces the document body; createdAt is preserved by the store and
// updatedAt is server-set.
func (s *ResourceService) Update(ctx context.Context, def resource.Definition, id string, body map[string]any) (*domain.Record, error) {
	doc, err := def.Validate(body)
	if err != nil {
		return nil, err
	}

	record, err := s.docs.Update(ctx, def.Collection, id, doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(def.Singular)
		}
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, def.Collection)
	return record, nil
}

// Delete removes a record. Guarded collections (categories) refuse deletion
// while referencing documents exist; count and delete run in one transaction.
func (s *ResourceService) Delete(ctx context.Context, def resource.Definition, id string) error {
	if def.Guard == nil {
		if err := s.docs.Delete(ctx, def.Collection, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(def.Singular)
			}
			return apperrors.MapError(err)
		}
		s.cache.Invalidate(ctx, def.Collection)
		return nil
	}

	record, err := s.Get(ctx, def, id)
	if err != nil {
		return err
	}

	keyValue, _ := record.Body[def.KeyField].(string)
	refCount, err := s.docs.DeleteGuarded(ctx, def.Collection, id, repository.ReferenceCheck{
		Collection: def.Guard.Collection,
		Field:      def.Guard.Field,
		Value:      keyValue,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(def.Singular)
		}
		return apperrors.MapError(err)
	}
	if refCount > 0 {
		return apperrors.NewConflict(
			fmt.Sprintf("%s is referenced by %d %s", def.Singular, refCount, def.Guard.Collection),
			map[string]any{def.Guard.Collection: refCount},
		)
	}

	s.cache.Invalidate(ctx, def.Collection)
	return nil
}
