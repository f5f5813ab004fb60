package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
	"github.com/srkbolt25-collab/srkfence-backend/internal/events"
)

// NotificationService notifies the sales team about enquiry activity.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEnquiryReceived, n.handleEnquiryReceived)
	n.dispatcher.Subscribe(events.EventEnquiryStatusChanged, n.handleEnquiryStatusChanged)
}

func (n *NotificationService) handleEnquiryReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("EnquiryReceived", zap.String("enquiry_id", event.EnquiryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotification(ctx, event)
	return nil
}

func (n *NotificationService) handleEnquiryStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("EnquiryStatusChanged", zap.String("enquiry_id", event.EnquiryID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("enquiry_id", event.EnquiryID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotification(ctx context.Context, event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook notification failed", zap.String("url", url), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook notification rejected",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
	}
}
