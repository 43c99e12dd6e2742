// Package repository defines the data access interfaces and their GORM
// implementations. Services depend on these interfaces only, which is also
// what lets the engine tests run against in-memory fakes.
package repository

import (
	"time"

	"vega_social_server/internal/model"
)

// FriendRequestRepository accesses friend_request rows. All deletes are
// hard deletes: a removed pair must leave no trace that could block a
// later request.
type FriendRequestRepository interface {
	FindByUuid(uuid string) (*model.FriendRequest, error)
	FindByPairKey(pairKey string) (*model.FriendRequest, error)
	FindPendingBySender(senderId string) ([]model.FriendRequest, error)
	FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error)
	Create(request *model.FriendRequest) error
	UpdateStatus(uuid string, status int8) error
	DeleteByPairKey(pairKey string) error
	// ExpireOverdue flips every pending request whose expires_at has passed
	// to EXPIRED and returns how many rows changed.
	ExpireOverdue(now time.Time) (int64, error)
}

// FriendshipRepository accesses friendship rows keyed by canonical pair.
type FriendshipRepository interface {
	FindByPairKey(pairKey string) (*model.Friendship, error)
	FindByUser(userId string) ([]model.Friendship, error)
	Create(friendship *model.Friendship) error
	// DeleteByPairKey removes the row and reports whether one existed.
	DeleteByPairKey(pairKey string) (bool, error)
}

// NotificationRepository accesses durable notification records.
type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByRecipient(recipientId string, limit int) ([]model.Notification, error)
	CountUnread(recipientId string) (int64, error)
	// MarkRead marks the given notification uuids read for the recipient;
	// an empty list marks everything read.
	MarkRead(recipientId string, uuids []string) error
}

// ActivityEventRepository appends to and reads the activity audit trail.
type ActivityEventRepository interface {
	Create(event *model.ActivityEvent) error
	FindVisibleByActors(actorIds []string, limit int) ([]model.ActivityEvent, error)
}

// PresenceRepository accesses presence records.
type PresenceRepository interface {
	FindByUserId(userId string) (*model.PresenceRecord, error)
	Upsert(record *model.PresenceRecord) error
	// UpdateConnection mirrors the registry's connection count and bumps
	// last_seen. Creates the record if the user has none yet.
	UpdateConnection(userId string, count int, lastSeen time.Time) error
}

// UserRepository reads user identity records owned by account management.
type UserRepository interface {
	FindByUuid(uuid string) (*model.UserInfo, error)
	FindByUuids(uuids []string) ([]model.UserInfo, error)
}
