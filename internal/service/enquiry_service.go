package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/events"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

const enquiryCollection = "enquiries"

// EnquirySubmitInput describes a public RFQ submission.
type EnquirySubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Message string
	Items   []domain.EnquiryItem
}

// EnquiryService handles RFQ intake and the admin workflow around it.
type EnquiryService struct {
	docs       repository.DocumentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEnquiryService builds the service.
func NewEnquiryService(docs repository.DocumentRepository, dispatcher events.Dispatcher, logger *zap.Logger) *EnquiryService {
	return &EnquiryService{docs: docs, dispatcher: dispatcher, logger: logger}
}

// Submit validates and stores a public RFQ. The product fields on each item
// are trusted client strings; quantities must be at least one. totalItems is
// computed server-side from the quantities.
func (s *EnquiryService) Submit(ctx context.Context, input EnquirySubmitInput) (*domain.Record, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if email := strings.TrimSpace(input.Email); email == "" || !strings.Contains(email, "@") {
		details["email"] = "valid email required"
	}
	if len(input.Items) == 0 {
		details["items"] = "at least one item required"
	}

	totalItems := 0
	items := make([]domain.EnquiryItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			details["items"] = "every quantity must be at least 1"
			break
		}
		totalItems += item.Quantity
		items = append(items, item)
	}
	if totalItems < 1 && len(input.Items) > 0 {
		details["totalItems"] = "must be at least 1"
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid enquiry", details)
	}

	doc := map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"email":       strings.TrimSpace(input.Email),
		"phone":       input.Phone,
		"company":     input.Company,
		"message":     input.Message,
		"items":       items,
		"totalItems":  totalItems,
		"status":      string(domain.EnquiryStatusPending),
		"reference":   "RFQ-" + strings.ToUpper(uuid.NewString()[:8]),
		"submittedAt": time.Now().UTC().Format(time.RFC3339),
	}

	record, err := s.docs.Insert(ctx, enquiryCollection, doc)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEnquiryReceived,
		EnquiryID: record.ID,
		Timestamp: time.Now(),
		Payload: events.EnquiryReceivedPayload{
			Reference:  doc["reference"].(string),
			Name:       doc["name"].(string),
			Email:      doc["email"].(string),
			TotalItems: totalItems,
		},
	})

	return record, nil
}

// List returns all enquiries, newest first.
func (s *EnquiryService) List(ctx context.Context) ([]domain.Record, error) {
	records, err := s.docs.List(ctx, enquiryCollection)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// Get returns a single enquiry.
func (s *EnquiryService) Get(ctx context.Context, id string) (*domain.Record, error) {
	record, err := s.docs.GetByID(ctx, enquiryCollection, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("enquiry")
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// UpdateStatus moves an enquiry through the sales workflow.
func (s *EnquiryService) UpdateStatus(ctx context.Context, id, status string) (*domain.Record, error) {
	if !domain.ValidEnquiryStatus(status) {
		return nil, apperrors.NewValidationError("invalid enquiry", map[string]any{
			"status": "must be one of Pending, Contacted, Quoted, Closed",
		})
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus, _ := record.Body["status"].(string)
	record.Body["status"] = status

	updated, err := s.docs.Update(ctx, enquiryCollection, id, record.Body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("enquiry")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEnquiryStatusChanged,
		EnquiryID: id,
		Timestamp: time.Now(),
		Payload:   events.EnquiryStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})

	return updated, nil
}

// Delete removes an enquiry.
func (s *EnquiryService) Delete(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, enquiryCollection, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("enquiry")
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EnquiryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
