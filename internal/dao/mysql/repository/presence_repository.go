package repository

import (
	"time"

	"vega_social_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type presenceRepository struct {
	db *gorm.DB
}

// NewPresenceRepository creates a PresenceRepository backed by GORM.
func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepository{db: db}
}

func (r *presenceRepository) FindByUserId(userId string) (*model.PresenceRecord, error) {
	var record model.PresenceRecord
	if err := r.db.Where("user_id = ?", userId).First(&record).Error; err != nil {
		return nil, wrapDBErrorf(err, "find presence user=%s", userId)
	}
	return &record, nil
}

func (r *presenceRepository) Upsert(record *model.PresenceRecord) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"manual_status", "privacy_mode", "allow_list", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return wrapDBErrorf(err, "upsert presence user=%s", record.UserId)
	}
	return nil
}

func (r *presenceRepository) UpdateConnection(userId string, count int, lastSeen time.Time) error {
	res := r.db.Model(&model.PresenceRecord{}).Where("user_id = ?", userId).
		Updates(map[string]any{"connection_count": count, "last_seen": lastSeen})
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "update presence connection user=%s", userId)
	}
	if res.RowsAffected == 0 {
		// first sighting of this user, create the record with defaults
		record := &model.PresenceRecord{
			UserId:          userId,
			ConnectionCount: count,
			LastSeen:        lastSeen,
		}
		if err := r.db.Create(record).Error; err != nil {
			return wrapDBErrorf(err, "create presence record user=%s", userId)
		}
	}
	return nil
}
