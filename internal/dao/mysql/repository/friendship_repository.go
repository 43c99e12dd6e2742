package repository

import (
	"vega_social_server/internal/model"

	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a FriendshipRepository backed by GORM.
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) FindByPairKey(pairKey string) (*model.Friendship, error) {
	var friendship model.Friendship
	if err := r.db.Where("pair_key = ?", pairKey).First(&friendship).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friendship pair=%s", pairKey)
	}
	return &friendship, nil
}

func (r *friendshipRepository) FindByUser(userId string) ([]model.Friendship, error) {
	var friendships []model.Friendship
	if err := r.db.Where("user_a_id = ? OR user_b_id = ?", userId, userId).Find(&friendships).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friendships user=%s", userId)
	}
	return friendships, nil
}

func (r *friendshipRepository) Create(friendship *model.Friendship) error {
	if err := r.db.Create(friendship).Error; err != nil {
		return wrapDBError(err, "create friendship")
	}
	return nil
}

// DeleteByPairKey hard-deletes the row so the pair returns to "no relation"
// with nothing left behind.
func (r *friendshipRepository) DeleteByPairKey(pairKey string) (bool, error) {
	res := r.db.Unscoped().Where("pair_key = ?", pairKey).Delete(&model.Friendship{})
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "delete friendship pair=%s", pairKey)
	}
	return res.RowsAffected > 0, nil
}
