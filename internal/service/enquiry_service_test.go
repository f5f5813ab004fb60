package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/events"
	"github.com/srkbolt25-collab/srkfence-backend/internal/service"
)

// captureDispatcher records published events.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func validSubmission() service.EnquirySubmitInput {
	return service.EnquirySubmitInput{
		Name:  "Priya",
		Email: "priya@example.com",
		Items: []domain.EnquiryItem{
			{ProductID: "p1", ProductTitle: "Fence A", Quantity: 2},
		},
	}
}

func TestSubmitValidEnquiry(t *testing.T) {
	docs := newFakeDocs()
	dispatcher := &captureDispatcher{}
	svc := service.NewEnquiryService(docs, dispatcher, zap.NewNop())

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Pending", record.Body["status"])
	assert.Equal(t, 2, record.Body["totalItems"])
	assert.NotEmpty(t, record.Body["reference"])
	assert.NotEmpty(t, record.Body["submittedAt"])

	items, ok := record.Body["items"].([]domain.EnquiryItem)
	require.True(t, ok, "items must be stored as typed lines")
	assert.Equal(t, []domain.EnquiryItem{{ProductID: "p1", ProductTitle: "Fence A", Quantity: 2}}, items)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventEnquiryReceived, dispatcher.events[0].Type)
}

func TestSubmitEmptyItemsRejected(t *testing.T) {
	docs := newFakeDocs()
	svc := service.NewEnquiryService(docs, &captureDispatcher{}, zap.NewNop())

	input := validSubmission()
	input.Items = nil
	_, err := svc.Submit(context.Background(), input)

	de := domainErr(t, err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Equal(t, 0, docs.size("enquiries"), "rejected submission must not persist")
}

func TestSubmitZeroQuantityRejected(t *testing.T) {
	docs := newFakeDocs()
	svc := service.NewEnquiryService(docs, &captureDispatcher{}, zap.NewNop())

	input := validSubmission()
	input.Items[0].Quantity = 0
	_, err := svc.Submit(context.Background(), input)

	de := domainErr(t, err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Equal(t, 0, docs.size("enquiries"))
}

func TestSubmitMissingContactRejected(t *testing.T) {
	docs := newFakeDocs()
	svc := service.NewEnquiryService(docs, &captureDispatcher{}, zap.NewNop())

	input := validSubmission()
	input.Name = " "
	input.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), input)

	de := domainErr(t, err)
	assert.Equal(t, "required", de.Details["name"])
	assert.Equal(t, "valid email required", de.Details["email"])
}

func TestUpdateStatusWorkflow(t *testing.T) {
	docs := newFakeDocs()
	dispatcher := &captureDispatcher{}
	svc := service.NewEnquiryService(docs, dispatcher, zap.NewNop())
	ctx := context.Background()

	record, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, record.ID, "Contacted")
	require.NoError(t, err)
	assert.Equal(t, "Contacted", updated.Body["status"])

	_, err = svc.UpdateStatus(ctx, record.ID, "Lost")
	de := domainErr(t, err)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestUpdateStatusUnknownEnquiry(t *testing.T) {
	svc := service.NewEnquiryService(newFakeDocs(), &captureDispatcher{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "missing", "Contacted")
	de := domainErr(t, err)
	assert.Equal(t, 404, de.HTTPStatus)
}

func TestDeleteEnquiry(t *testing.T) {
	docs := newFakeDocs()
	svc := service.NewEnquiryService(docs, &captureDispatcher{}, zap.NewNop())
	ctx := context.Background()

	record, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID))
	assert.Equal(t, 0, docs.size("enquiries"))

	err = svc.Delete(ctx, record.ID)
	de := domainErr(t, err)
	assert.Equal(t, 404, de.HTTPStatus)
}
