package model

import (
	"time"

	"gorm.io/gorm"
)

// PresenceRecord holds a user's manual status and privacy scope plus the
// mirrored connection count. ConnectionCount is derived from the connection
// registry and never authored directly by API callers.
type PresenceRecord struct {
	gorm.Model
	UserId          string    `gorm:"column:user_id;uniqueIndex;type:char(20);not null"`
	ManualStatus    int8      `gorm:"column:manual_status;not null"` // presence_status_enum
	PrivacyMode     int8      `gorm:"column:privacy_mode;not null"`  // privacy_mode_enum
	AllowList       string    `gorm:"column:allow_list;type:varchar(2048)"` // JSON id array, SELECTED mode only
	ConnectionCount int       `gorm:"column:connection_count;not null;default:0"`
	LastSeen        time.Time `gorm:"column:last_seen"`
}

func (PresenceRecord) TableName() string {
	return "presence_record"
}
