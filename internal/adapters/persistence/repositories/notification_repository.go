package repositories

import (
	"context"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByID gets a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		First(&notification, id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient lists a recipient's notifications, unread first, newest
// within each group
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("Sender").
		Order("read_status DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// CountUnread counts a recipient's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_status = ?", recipientID, models.ReadStatusUnread).
		Count(&count).Error
	return count, err
}

// MarkRead flips a notification's read status. Scoped to the recipient so
// one employee cannot mark another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read_status", models.ReadStatusRead)
	return result.RowsAffected, result.Error
}

// MarkAllRead flips every unread notification for a recipient
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_status = ?", recipientID, models.ReadStatusUnread).
		Update("read_status", models.ReadStatusRead)
	return result.RowsAffected, result.Error
}

// UpdateSendStatus records the outcome of a dispatch attempt
func (r *NotificationRepository) UpdateSendStatus(ctx context.Context, id uint, sendStatus string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("send_status", sendStatus).Error
}
