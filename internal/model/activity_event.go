package model

import (
	"gorm.io/gorm"
)

// ActivityEvent is the append-only audit trail of social actions.
type ActivityEvent struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	ActorId   string `gorm:"column:actor_id;index;type:char(20);not null"`
	SubjectId string `gorm:"column:subject_id;index;type:char(20);not null"`
	Type      string `gorm:"column:type;type:varchar(40);not null"`
	Payload   string `gorm:"column:payload;type:varchar(512)"`
	Visible   bool   `gorm:"column:visible;not null;default:true"` // hidden events stay audit-only
}

func (ActivityEvent) TableName() string {
	return "activity_event"
}
