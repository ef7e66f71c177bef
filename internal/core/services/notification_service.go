package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/config"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"

	"github.com/sirupsen/logrus"
)

// NotificationService records lifecycle notifications and dispatches them to
// the configured webhook. A failed dispatch never fails the operation that
// produced the notification; the row just keeps its Failed send status.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	webhookURL       string
	webhookToken     string
	httpClient       *http.Client
	log              *logrus.Entry
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository, notifyCfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		webhookURL:       notifyCfg.WebhookURL,
		webhookToken:     notifyCfg.WebhookToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logrus.WithField("service", "notification"),
	}
}

// Notify records a lifecycle notification and attempts webhook dispatch.
func (s *NotificationService) Notify(ctx context.Context, event domain.EventType, senderID, recipientID uint, applicationID *uint, content string) {
	notification := &models.Notification{
		NotificationType:    string(event),
		Content:             content,
		SendStatus:          models.SendStatusPending,
		ReadStatus:          models.ReadStatusUnread,
		SenderID:            senderID,
		RecipientID:         recipientID,
		LinkedApplicationID: applicationID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.log.WithError(err).Error("failed to record notification")
		return
	}

	sendStatus := models.SendStatusSent
	if err := s.dispatch(ctx, notification); err != nil {
		s.log.WithError(err).WithField("notification_id", notification.ID).
			Warn("webhook dispatch failed")
		sendStatus = models.SendStatusFailed
	}

	if err := s.notificationRepo.UpdateSendStatus(ctx, notification.ID, sendStatus); err != nil {
		s.log.WithError(err).Error("failed to update notification send status")
	}
}

// dispatch posts the notification payload to the configured webhook. A blank
// URL disables dispatch entirely; the row then counts as sent.
func (s *NotificationService) dispatch(ctx context.Context, notification *models.Notification) error {
	if s.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":         notification.NotificationType,
		"content":      notification.Content,
		"recipient_id": notification.RecipientID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.webhookToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.webhookToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NotificationListResponse bundles a notification page with the unread count
type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Meta          *pagination.Meta       `json:"meta"`
}

// List returns the recipient's notifications, unread first
func (s *NotificationService) List(ctx context.Context, recipientID uint, params *pagination.Params) (*NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.ListByRecipient(ctx, recipientID, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Meta:          pagination.GetMeta(params, total),
	}, nil
}

// MarkRead flips one notification to read. The update is scoped to the
// recipient, so an id owned by someone else reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	affected, err := s.notificationRepo.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification for the recipient
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}
