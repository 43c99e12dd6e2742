package repository

import (
	"vega_social_server/internal/model"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a NotificationRepository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return wrapDBError(err, "create notification")
	}
	return nil
}

func (r *notificationRepository) FindByRecipient(recipientId string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []model.Notification
	if err := r.db.Where("recipient_id = ?", recipientId).
		Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, wrapDBErrorf(err, "find notifications recipient=%s", recipientId)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(recipientId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientId, false).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count unread recipient=%s", recipientId)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(recipientId string, uuids []string) error {
	query := r.db.Model(&model.Notification{}).Where("recipient_id = ?", recipientId)
	if len(uuids) > 0 {
		query = query.Where("uuid IN ?", uuids)
	}
	if err := query.Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "mark notifications read recipient=%s", recipientId)
	}
	return nil
}
