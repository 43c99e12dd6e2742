package repository

import (
	"time"

	"vega_social_server/internal/model"
	"vega_social_server/pkg/enum/request/request_status_enum"

	"gorm.io/gorm"
)

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository creates a FriendRequestRepository backed by GORM.
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) FindByUuid(uuid string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.First(&request, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friend request uuid=%s", uuid)
	}
	return &request, nil
}

func (r *friendRequestRepository) FindByPairKey(pairKey string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.Where("pair_key = ?", pairKey).First(&request).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friend request pair=%s", pairKey)
	}
	return &request, nil
}

func (r *friendRequestRepository) FindPendingBySender(senderId string) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	if err := r.db.Where("sender_id = ? AND status = ?", senderId, request_status_enum.PENDING).Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "find pending requests sender=%s", senderId)
	}
	return requests, nil
}

func (r *friendRequestRepository) FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverId, request_status_enum.PENDING).Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "find pending requests receiver=%s", receiverId)
	}
	return requests, nil
}

func (r *friendRequestRepository) Create(request *model.FriendRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return wrapDBError(err, "create friend request")
	}
	return nil
}

func (r *friendRequestRepository) UpdateStatus(uuid string, status int8) error {
	if err := r.db.Model(&model.FriendRequest{}).Where("uuid = ?", uuid).Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "update friend request status uuid=%s", uuid)
	}
	return nil
}

// DeleteByPairKey removes every request row for the pair. Unscoped: a
// removed relationship must not leave soft-deleted rows that could trip
// the pair uniqueness on a later request.
func (r *friendRequestRepository) DeleteByPairKey(pairKey string) error {
	if err := r.db.Unscoped().Where("pair_key = ?", pairKey).Delete(&model.FriendRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "delete friend requests pair=%s", pairKey)
	}
	return nil
}

func (r *friendRequestRepository) ExpireOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&model.FriendRequest{}).
		Where("status = ? AND expires_at < ?", request_status_enum.PENDING, now).
		Update("status", request_status_enum.EXPIRED)
	if res.Error != nil {
		return 0, wrapDBError(res.Error, "expire overdue friend requests")
	}
	return res.RowsAffected, nil
}
