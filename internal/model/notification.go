package model

import (
	"gorm.io/gorm"
)

// Notification is the durable record of a social event for one recipient.
// It is written before any live push is attempted and is the source for the
// unread list; it is never consulted for relationship state.
type Notification struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	RecipientId string `gorm:"column:recipient_id;index;type:char(20);not null"`
	SenderId    string `gorm:"column:sender_id;type:char(20);not null"`
	Type        string `gorm:"column:type;type:varchar(40);not null"`
	Payload     string `gorm:"column:payload;type:varchar(512)"` // JSON event payload
	IsRead      bool   `gorm:"column:is_read;not null;default:false"`
}

func (Notification) TableName() string {
	return "notification"
}
