package model

import (
	"gorm.io/gorm"
)

// UserInfo mirrors the account service's user record. Account management
// owns identity; this service only reads it to assemble friend lists.
type UserInfo struct {
	gorm.Model
	Uuid     string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	Nickname string `gorm:"column:nickname;type:varchar(64);not null"`
	Avatar   string `gorm:"column:avatar;type:varchar(255)"`
}

func (UserInfo) TableName() string {
	return "user_info"
}
