package model

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest is a directed request from sender to receiver. PairKey is
// the canonical unordered key; the unique index on it guarantees a single
// request row per pair, which doubles as the tie-break for symmetric races:
// the first transaction to commit wins, the loser hits the duplicate key.
type FriendRequest struct {
	gorm.Model
	Uuid       string    `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	PairKey    string    `gorm:"column:pair_key;uniqueIndex;type:char(41);not null"`
	SenderId   string    `gorm:"column:sender_id;index;type:char(20);not null"`
	ReceiverId string    `gorm:"column:receiver_id;index;type:char(20);not null"`
	Status     int8      `gorm:"column:status;not null"` // request_status_enum
	Message    string    `gorm:"column:message;type:varchar(100)"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null"`
}

func (FriendRequest) TableName() string {
	return "friend_request"
}

// ExpiredAt reports whether the request's TTL has passed at the given time.
func (r *FriendRequest) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
