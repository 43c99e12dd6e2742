package repository

import (
	"vega_social_server/internal/model"

	"gorm.io/gorm"
)

type activityEventRepository struct {
	db *gorm.DB
}

// NewActivityEventRepository creates an ActivityEventRepository backed by GORM.
func NewActivityEventRepository(db *gorm.DB) ActivityEventRepository {
	return &activityEventRepository{db: db}
}

func (r *activityEventRepository) Create(event *model.ActivityEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return wrapDBError(err, "create activity event")
	}
	return nil
}

func (r *activityEventRepository) FindVisibleByActors(actorIds []string, limit int) ([]model.ActivityEvent, error) {
	if len(actorIds) == 0 {
		return []model.ActivityEvent{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var events []model.ActivityEvent
	if err := r.db.Where("actor_id IN ? AND visible = ?", actorIds, true).
		Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, wrapDBError(err, "find activity events")
	}
	return events, nil
}
